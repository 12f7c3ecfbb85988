package mcp

import (
	"context"

	"github.com/wunderfrucht/jobsuche/internal/config"
	"github.com/wunderfrucht/jobsuche/pkg/logging"
)

// LoadResources builds the tool dependencies from cfg and logs which
// optional integrations are active.
func LoadResources(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Resources, error) {
	// Once built, Resources.Shutdown owns the Neo4j driver, so the
	// injector's cleanup is only used on its own error paths.
	res, _, err := InitializeResources(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize resources", "err", err)
		return nil, err
	}

	logger.Info("Jobsuche client initialized", "base_url", cfg.Jobsuche.BaseURL)
	if res.Neo4jClient != nil {
		logger.Info("Neo4j client initialized", "uri", cfg.Neo4j.URI)
	} else {
		logger.Info("Neo4j not configured, results are not stored")
	}
	if res.Sheets == nil {
		logger.Info("Google Sheets not configured, sheets_export disabled")
	}

	return res, nil
}
