package mcp

import (
	"context"

	"github.com/wunderfrucht/jobsuche/internal/config"
	"github.com/wunderfrucht/jobsuche/internal/mcp/tools"
	sheetsclient "github.com/wunderfrucht/jobsuche/pkg/sheets"
)

// provideSheetsWriter builds the Google Sheets client. Without credentials
// export stays disabled and the writer is nil.
func provideSheetsWriter(ctx context.Context, cfg config.Config) (tools.SheetsWriter, error) {
	if cfg.SheetsCredentialsPath == "" {
		return nil, nil
	}
	client, err := sheetsclient.NewClient(ctx, sheetsclient.Config{
		CredentialsPath: cfg.SheetsCredentialsPath,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}
