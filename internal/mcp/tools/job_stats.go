package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wunderfrucht/jobsuche/internal/domain/job"
	"github.com/wunderfrucht/jobsuche/pkg/logging"
)

// JobStatsParams defines the arguments for the job_stats tool
type JobStatsParams struct {
	Limit int `json:"limit,omitempty" jsonschema:"Number of employers to list (default 20)"`
}

type jobStatsTool struct {
	service job.Service
	logger  *logging.Logger
}

func (t jobStatsTool) handle(ctx context.Context, _ *sdkmcp.CallToolRequest, params JobStatsParams) (*sdkmcp.CallToolResult, any, error) {
	stats, err := t.service.EmployerStats(ctx, params.Limit)
	if errors.Is(err, job.ErrNoRepository) {
		return nil, nil, fmt.Errorf("job_stats unavailable: Neo4j not configured")
	}
	if err != nil {
		t.logger.Warn("job_stats failed", "err", err)
		return nil, nil, fmt.Errorf("job stats failed: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "[job_stats] top %d employer(s) by stored listings", len(stats))
	for _, s := range stats {
		fmt.Fprintf(&sb, "\n- %s: %d", s.Employer, s.Jobs)
	}
	return textResult(sb.String()), map[string]any{"employers": stats}, nil
}
