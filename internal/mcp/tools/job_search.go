package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wunderfrucht/jobsuche/internal/domain"
	"github.com/wunderfrucht/jobsuche/internal/domain/job"
	"github.com/wunderfrucht/jobsuche/pkg/logging"
)

// JobSearchParams defines the arguments for the job_search tool
type JobSearchParams struct {
	Title           string   `json:"title,omitempty" jsonschema:"Job title or free-text keywords"`
	Location        string   `json:"location,omitempty" jsonschema:"Place of work, e.g. Berlin or 80331"`
	RadiusKM        *int     `json:"radius_km,omitempty" jsonschema:"Search radius around location in km"`
	Employer        string   `json:"employer,omitempty" jsonschema:"Exact, case-sensitive employer name"`
	EmploymentTypes []string `json:"employment_types,omitempty" jsonschema:"Offer types: 1 work, 2 self-employment, 4 apprenticeship or dual study, 34 internship or trainee"`
	ContractTypes   []string `json:"contract_types,omitempty" jsonschema:"Contract types: 1 fixed-term, 2 permanent"`
	WorkingTimes    []string `json:"working_times,omitempty" jsonschema:"Working time models: vz full-time, tz part-time, snw shifts, ho home office, mj minijob"`
	PublishedWithin *int     `json:"published_within_days,omitempty" jsonschema:"Only listings published in the last N days (0 to 100)"`
	TempAgency      *bool    `json:"temp_agency,omitempty" jsonschema:"Include temporary employment agencies"`
	Page            int      `json:"page,omitempty" jsonschema:"1-based page number"`
	Size            int      `json:"size,omitempty" jsonschema:"Results per page, at most 100"`
}

func (p JobSearchParams) toDomain() domain.SearchParams {
	return domain.SearchParams{
		Title:           p.Title,
		Location:        p.Location,
		Radius:          p.RadiusKM,
		Employer:        p.Employer,
		EmploymentTypes: p.EmploymentTypes,
		ContractTypes:   p.ContractTypes,
		WorkingTimes:    p.WorkingTimes,
		PublishedWithin: p.PublishedWithin,
		TempAgency:      p.TempAgency,
		Page:            p.Page,
		Size:            p.Size,
	}
}

// JobSearchAllParams defines the arguments for the job_search_all tool
type JobSearchAllParams struct {
	JobSearchParams
	Limit int `json:"limit,omitempty" jsonschema:"Stop after this many jobs (default 500, at most 10000)"`
}

type jobSearchTool struct {
	service job.Service
	logger  *logging.Logger
}

func (t jobSearchTool) handle(ctx context.Context, _ *sdkmcp.CallToolRequest, params JobSearchParams) (*sdkmcp.CallToolResult, any, error) {
	t.logger.Info("job_search request", "title", params.Title, "location", params.Location, "page", params.Page)

	result, err := t.service.Search(ctx, params.toDomain())
	if err != nil {
		t.logger.Warn("job_search failed", "err", err)
		return nil, nil, fmt.Errorf("job search failed: %w", err)
	}

	header := fmt.Sprintf("[job_search] page %d: %d of %d job(s)", result.Page, len(result.Jobs), result.Total)
	return textResult(formatJobs(header, result.Jobs)), result, nil
}

type jobSearchAllTool struct {
	service job.Service
	logger  *logging.Logger
}

// jobSearchAllOutput adds the failure, if any, to the partial result.
type jobSearchAllOutput struct {
	domain.CollectResult
	Error string `json:"error,omitempty"`
}

func (t jobSearchAllTool) handle(ctx context.Context, _ *sdkmcp.CallToolRequest, params JobSearchAllParams) (*sdkmcp.CallToolResult, any, error) {
	t.logger.Info("job_search_all request", "title", params.Title, "location", params.Location, "limit", params.Limit)

	result, err := t.service.Collect(ctx, params.toDomain(), params.Limit)
	if err != nil && len(result.Jobs) == 0 {
		t.logger.Warn("job_search_all failed", "err", err)
		return nil, nil, fmt.Errorf("job search failed: %w", err)
	}

	out := jobSearchAllOutput{CollectResult: result}
	header := fmt.Sprintf("[job_search_all] %d job(s) from %d page(s), %d declared", len(result.Jobs), result.Pages, result.Total)
	switch {
	case err != nil:
		out.Error = err.Error()
		header += fmt.Sprintf("\nstopped early: %v (jobs above were read before the failure)", err)
	case result.Truncated:
		header += "\nthe service stops serving results after page 100; narrow the search to see the rest"
	case result.Limited:
		header += "\nlimit reached; more results are available"
	}

	res := textResult(formatJobs(header, result.Jobs))
	res.IsError = err != nil
	return res, out, nil
}
