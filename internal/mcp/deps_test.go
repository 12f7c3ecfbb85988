package mcp

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wunderfrucht/jobsuche/internal/config"
	"github.com/wunderfrucht/jobsuche/pkg/logging"
)

func TestProvideNeo4jClientDisabled(t *testing.T) {
	client, cleanup, err := provideNeo4jClient(context.Background(), config.Config{})
	require.NoError(t, err)
	assert.Nil(t, client)
	require.NotNil(t, cleanup)
	cleanup()
}

func TestProvideJobRepositoryWithoutNeo4j(t *testing.T) {
	assert.Nil(t, provideJobRepository(nil))
}

func TestInitializeResourcesWithoutOptionalIntegrations(t *testing.T) {
	res, cleanup, err := InitializeResources(context.Background(), config.Config{}, logging.NewNop())
	require.NoError(t, err)
	defer cleanup()

	assert.NotNil(t, res.JobService)
	assert.Nil(t, res.Sheets)
	assert.Nil(t, res.Neo4jClient)
}

func TestInitializeResourcesFailsOnSheetsCredentials(t *testing.T) {
	cfg := config.Config{SheetsCredentialsPath: filepath.Join(t.TempDir(), "missing.json")}

	res, cleanup, err := InitializeResources(context.Background(), cfg, logging.NewNop())
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Nil(t, cleanup)
}
