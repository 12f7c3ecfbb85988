package mcp

import (
	"context"
	"fmt"

	"github.com/wunderfrucht/jobsuche/internal/config"
	"github.com/wunderfrucht/jobsuche/internal/domain/job"
	storage "github.com/wunderfrucht/jobsuche/internal/storage/neo4j"
	"github.com/wunderfrucht/jobsuche/pkg/jobsuche"
	"github.com/wunderfrucht/jobsuche/pkg/logging"
	n4j "github.com/wunderfrucht/jobsuche/pkg/neo4j"
)

// provideJobsucheConfig extracts the API client settings from main config
func provideJobsucheConfig(cfg config.Config, logger *logging.Logger) jobsuche.Config {
	return jobsuche.Config{
		BaseURL: cfg.Jobsuche.BaseURL,
		APIKey:  cfg.Jobsuche.APIKey,
		Timeout: cfg.Jobsuche.Timeout,
		Retry:   jobsuche.RetryPolicy{MaxAttempts: cfg.Jobsuche.MaxAttempts},
		Logger:  logger.Named("jobsuche").Zap(),
	}
}

// provideNeo4jClient connects to Neo4j, or returns nil when no URI is set.
// The cleanup closes the driver if a later provider fails.
func provideNeo4jClient(ctx context.Context, cfg config.Config) (*n4j.Client, func(), error) {
	if !cfg.Neo4jEnabled() {
		return nil, func() {}, nil
	}
	client, err := n4j.NewClient(ctx, n4j.Config{
		URI:      cfg.Neo4j.URI,
		Username: cfg.Neo4j.Username,
		Password: cfg.Neo4j.Password,
		Database: cfg.Neo4j.Database,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("neo4j: %w", err)
	}
	cleanup := func() {
		_ = client.Close(context.Background())
	}
	return client, cleanup, nil
}

// provideJobRepository returns a nil interface, not a typed nil, without Neo4j.
func provideJobRepository(client *n4j.Client) job.Repository {
	if client == nil {
		return nil
	}
	return storage.NewJobRepository(client)
}

func provideJobService(client *jobsuche.Client, repo job.Repository, logger *logging.Logger) (job.Service, error) {
	return job.NewServiceWithDeps(client, repo, logger)
}
