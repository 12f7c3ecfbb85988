package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wunderfrucht/jobsuche/internal/domain/job"
	"github.com/wunderfrucht/jobsuche/internal/mcp/tools"
	"github.com/wunderfrucht/jobsuche/pkg/logging"
	n4j "github.com/wunderfrucht/jobsuche/pkg/neo4j"
)

type ToolRegistry struct {
	logger *logging.Logger
}

// Resources are the dependencies the tools run against. Sheets and
// Neo4jClient are nil when their integration is not configured.
type Resources struct {
	JobService  job.Service
	Sheets      tools.SheetsWriter
	Neo4jClient *n4j.Client
}

// Shutdown releases the Neo4j driver.
func (r *Resources) Shutdown(ctx context.Context) error {
	if r == nil {
		return nil
	}
	return r.Neo4jClient.Shutdown(ctx)
}

func NewToolRegistry(logger *logging.Logger) *ToolRegistry {
	return &ToolRegistry{logger: logger}
}

func (r *ToolRegistry) RegisterAll(server *sdkmcp.Server, res Resources) error {
	if err := tools.RegisterJobTools(server, res.JobService, r.logger.Named("tools")); err != nil {
		return err
	}

	if err := tools.RegisterExportTools(server, res.JobService, res.Sheets, r.logger.Named("tools")); err != nil {
		return err
	}

	if err := tools.RegisterGraphTools(server, res.JobService, res.Neo4jClient, r.logger.Named("tools")); err != nil {
		return err
	}

	return nil
}
