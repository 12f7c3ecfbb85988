package tools

import (
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wunderfrucht/jobsuche/internal/domain"
)

// textResult returns a text-only ToolResult
func textResult(msg string) *sdkmcp.CallToolResult {
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{
			&sdkmcp.TextContent{Text: msg},
		},
	}
}

// formatJobs renders a short bullet list of jobs under a header line.
func formatJobs(header string, jobs []domain.JobSummary) string {
	var sb strings.Builder
	sb.WriteString(header)
	for _, j := range jobs {
		fmt.Fprintf(&sb, "\n- %s | %s | %s | %s", j.Refnr, j.Title, j.Employer, j.Location)
	}
	return sb.String()
}
