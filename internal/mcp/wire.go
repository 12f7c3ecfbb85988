//go:build wireinject
// +build wireinject

package mcp

import (
	"context"

	"github.com/google/wire"

	"github.com/wunderfrucht/jobsuche/internal/config"
	"github.com/wunderfrucht/jobsuche/pkg/jobsuche"
	"github.com/wunderfrucht/jobsuche/pkg/logging"
)

// InitializeResources creates Resources with all resources wired up
func InitializeResources(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Resources, func(), error) {
	wire.Build(
		// Jobsuche API
		provideJobsucheConfig,
		jobsuche.NewClient,

		// Neo4j, optional
		provideNeo4jClient,
		provideJobRepository,

		// Google Sheets, optional
		provideSheetsWriter,

		// Services
		provideJobService,

		wire.Struct(new(Resources), "*"),
	)

	return &Resources{}, nil, nil
}
