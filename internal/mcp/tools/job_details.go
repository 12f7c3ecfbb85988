package tools

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wunderfrucht/jobsuche/internal/domain/job"
	"github.com/wunderfrucht/jobsuche/pkg/logging"
)

// JobDetailsParams defines the arguments for the job_details tool
type JobDetailsParams struct {
	Refnrs []string `json:"refnrs" jsonschema:"Reference numbers from job_search results (at most 50)"`
}

// EmployerLogoParams defines the arguments for the employer_logo tool
type EmployerLogoParams struct {
	EmployerHash string `json:"employer_hash" jsonschema:"The logo_hash of a job_search result"`
}

type jobDetailsTool struct {
	service job.Service
	logger  *logging.Logger
}

func (t jobDetailsTool) handle(ctx context.Context, _ *sdkmcp.CallToolRequest, params JobDetailsParams) (*sdkmcp.CallToolResult, any, error) {
	t.logger.Info("job_details request", "refnrs", len(params.Refnrs))

	result, err := t.service.Details(ctx, params.Refnrs)
	if err != nil {
		t.logger.Warn("job_details failed", "err", err)
		return nil, nil, fmt.Errorf("job details failed: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "[job_details] %d listing(s)", len(result.Details))
	for _, d := range result.Details {
		fmt.Fprintf(&sb, "\n\n## %s (%s)\n%s", d.Title, d.Refnr, d.Employer)
		if d.Salary != "" {
			fmt.Fprintf(&sb, "\nSalary: %s", d.Salary)
		}
		if d.Description != "" {
			fmt.Fprintf(&sb, "\n\n%s", d.Description)
		}
	}
	if len(result.Missing) > 0 {
		fmt.Fprintf(&sb, "\n\nNo longer available: %s", strings.Join(result.Missing, ", "))
	}

	return textResult(sb.String()), result, nil
}

type employerLogoTool struct {
	service job.Service
	logger  *logging.Logger
}

func (t employerLogoTool) handle(ctx context.Context, _ *sdkmcp.CallToolRequest, params EmployerLogoParams) (*sdkmcp.CallToolResult, any, error) {
	png, ok, err := t.service.Logo(ctx, params.EmployerHash)
	if err != nil {
		t.logger.Warn("employer_logo failed", "hash", params.EmployerHash, "err", err)
		return nil, nil, fmt.Errorf("employer logo failed: %w", err)
	}
	if !ok {
		return textResult(fmt.Sprintf("[employer_logo] employer %s has no logo", params.EmployerHash)), nil, nil
	}

	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{
			&sdkmcp.ImageContent{Data: png, MIMEType: "image/png"},
		},
	}, nil, nil
}
