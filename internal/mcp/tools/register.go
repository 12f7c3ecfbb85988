package tools

import (
	"fmt"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wunderfrucht/jobsuche/internal/domain/job"
	"github.com/wunderfrucht/jobsuche/pkg/logging"
	pkgneo4j "github.com/wunderfrucht/jobsuche/pkg/neo4j"
)

// RegisterJobTools installs the search, details and logo tools.
func RegisterJobTools(server *sdkmcp.Server, svc job.Service, logger *logging.Logger) error {
	if svc == nil {
		return fmt.Errorf("job tools: service is required")
	}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "job_search",
		Description: "Search one page of the Bundesagentur für Arbeit job board and store the hits",
	}, jobSearchTool{service: svc, logger: logger}.handle)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "job_search_all",
		Description: "Walk all result pages of a job search up to a limit; partial results survive failures",
	}, jobSearchAllTool{service: svc, logger: logger}.handle)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "job_details",
		Description: "Fetch full listings (description, salary, skills) by reference number",
	}, jobDetailsTool{service: svc, logger: logger}.handle)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "employer_logo",
		Description: "Fetch an employer logo as PNG",
	}, employerLogoTool{service: svc, logger: logger}.handle)

	logger.Info("job tools registered", "tools", []string{"job_search", "job_search_all", "job_details", "employer_logo"})
	return nil
}

// RegisterExportTools installs sheets_export. sheets may be nil, in which
// case the tool reports that export is not configured.
func RegisterExportTools(server *sdkmcp.Server, svc job.Service, sheets SheetsWriter, logger *logging.Logger) error {
	if svc == nil {
		return fmt.Errorf("export tools: service is required")
	}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "sheets_export",
		Description: "Run a job search and write the results to a Google Sheets tab",
	}, sheetsExportTool{service: svc, sheets: sheets, logger: logger, clock: time.Now}.handle)
	return nil
}

// RegisterGraphTools installs the tools backed by the job graph.
func RegisterGraphTools(server *sdkmcp.Server, svc job.Service, client *pkgneo4j.Client, logger *logging.Logger) error {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "job_stats",
		Description: "List employers by number of stored listings",
	}, jobStatsTool{service: svc, logger: logger}.handle)

	handler := &graphToolHandler{client: client}
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "graph_tool",
		Description: "Inspect the stored job graph with read-only Cypher",
	}, handler.handle)
	return nil
}
