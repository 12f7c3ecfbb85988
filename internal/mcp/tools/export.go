package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wunderfrucht/jobsuche/internal/domain"
	"github.com/wunderfrucht/jobsuche/internal/domain/job"
	"github.com/wunderfrucht/jobsuche/pkg/logging"
)

// SheetsWriter writes tables to Google Sheets
type SheetsWriter interface {
	ReplaceTable(ctx context.Context, spreadsheetID, sheet string, header []string, rows [][]any) error
	AppendValues(ctx context.Context, spreadsheetID, rng string, values [][]any) error
}

// SheetsExportParams defines the arguments for the sheets_export tool
type SheetsExportParams struct {
	JobSearchAllParams
	SpreadsheetID string `json:"spreadsheet_id" jsonschema:"Google Sheets document ID"`
	Tab           string `json:"tab,omitempty" jsonschema:"Tab name, default Jobs"`
	Append        bool   `json:"append,omitempty" jsonschema:"Append rows instead of replacing the tab"`
}

// SheetsExportResult describes the summary returned after export
type SheetsExportResult struct {
	SpreadsheetID string    `json:"spreadsheet_id"`
	Tab           string    `json:"tab"`
	WrittenRows   int       `json:"written_rows"`
	Mode          string    `json:"mode"`
	Truncated     bool      `json:"truncated,omitempty"`
	CompletedAt   time.Time `json:"completed_at"`
}

var sheetHeader = []string{"Refnr", "Title", "Employer", "Location", "Published", "URL"}

func sheetRows(jobs []domain.JobSummary) [][]any {
	rows := make([][]any, 0, len(jobs))
	for _, j := range jobs {
		rows = append(rows, []any{j.Refnr, j.Title, j.Employer, j.Location, j.PublishedAt, j.URL})
	}
	return rows
}

type sheetsExportTool struct {
	service job.Service
	sheets  SheetsWriter
	logger  *logging.Logger
	clock   func() time.Time
}

func (t sheetsExportTool) handle(ctx context.Context, _ *sdkmcp.CallToolRequest, params SheetsExportParams) (*sdkmcp.CallToolResult, any, error) {
	if t.sheets == nil {
		return nil, nil, fmt.Errorf("sheets export unavailable: GOOGLE_SHEETS_CREDENTIALS_PATH not set")
	}
	if strings.TrimSpace(params.SpreadsheetID) == "" {
		return nil, nil, fmt.Errorf("spreadsheet_id is required")
	}
	tab := params.Tab
	if tab == "" {
		tab = "Jobs"
	}

	collected, err := t.service.Collect(ctx, params.toDomain(), params.Limit)
	if err != nil {
		t.logger.Warn("sheets_export: collect failed", "err", err)
		return nil, nil, fmt.Errorf("sheets export: %w", err)
	}

	rows := sheetRows(collected.Jobs)
	result := SheetsExportResult{
		SpreadsheetID: params.SpreadsheetID,
		Tab:           tab,
		WrittenRows:   len(rows),
		Truncated:     collected.Truncated,
	}

	if params.Append {
		result.Mode = "append"
		if len(rows) > 0 {
			err = t.sheets.AppendValues(ctx, params.SpreadsheetID, tab+"!A1", rows)
		}
	} else {
		result.Mode = "replace"
		err = t.sheets.ReplaceTable(ctx, params.SpreadsheetID, tab, sheetHeader, rows)
	}
	if err != nil {
		t.logger.Error("sheets_export: write failed", "spreadsheet_id", params.SpreadsheetID, "err", err)
		return nil, nil, fmt.Errorf("sheets export: %w", err)
	}

	result.CompletedAt = t.clock().UTC()
	t.logger.Info("sheets_export completed", "rows", result.WrittenRows, "mode", result.Mode, "tab", tab)

	msg := fmt.Sprintf("[sheets_export] %s: wrote %d row(s) to %s/%s", result.Mode, result.WrittenRows, result.SpreadsheetID, tab)
	return textResult(msg), result, nil
}
