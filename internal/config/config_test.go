package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"LOG_LEVEL", "LOG_FORMAT", "MCP_HOST", "PORT",
		"JOBSUCHE_BASE_URL", "JOBSUCHE_API_KEY", "JOBSUCHE_TIMEOUT", "JOBSUCHE_MAX_ATTEMPTS",
		"NEO4J_URI", "NEO4J_USERNAME", "NEO4J_PASSWORD", "NEO4J_DATABASE",
		"GOOGLE_SHEETS_CREDENTIALS_PATH", "WATCH_SCHEDULE", "WATCH_QUERIES", "WATCH_MAX_ITEMS",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.Jobsuche.Timeout)
	assert.Zero(t, cfg.Jobsuche.MaxAttempts)
	assert.False(t, cfg.Neo4jEnabled())
	assert.Equal(t, 500, cfg.Watch.MaxItems)
	assert.Empty(t, cfg.Watch.Queries)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_FORMAT", "console")
	t.Setenv("JOBSUCHE_TIMEOUT", "5s")
	t.Setenv("JOBSUCHE_MAX_ATTEMPTS", "2")
	t.Setenv("NEO4J_URI", "neo4j://localhost:7687")
	t.Setenv("NEO4J_USERNAME", "neo4j")
	t.Setenv("NEO4J_PASSWORD", "secret")
	t.Setenv("WATCH_SCHEDULE", "@every 6h")
	t.Setenv("WATCH_QUERIES", "Softwareentwickler@Berlin; Pflegefachkraft")
	t.Setenv("WATCH_MAX_ITEMS", "200")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, 5*time.Second, cfg.Jobsuche.Timeout)
	assert.Equal(t, 2, cfg.Jobsuche.MaxAttempts)
	assert.True(t, cfg.Neo4jEnabled())
	assert.Equal(t, "@every 6h", cfg.Watch.Schedule)
	assert.Equal(t, []WatchQuery{
		{Title: "Softwareentwickler", Location: "Berlin"},
		{Title: "Pflegefachkraft"},
	}, cfg.Watch.Queries)
	assert.Equal(t, 200, cfg.Watch.MaxItems)
}

func TestLoadCollectsProblems(t *testing.T) {
	clearEnv(t)
	t.Setenv("JOBSUCHE_TIMEOUT", "soon")
	t.Setenv("JOBSUCHE_MAX_ATTEMPTS", "0")
	t.Setenv("NEO4J_URI", "neo4j://localhost:7687")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JOBSUCHE_TIMEOUT")
	assert.Contains(t, err.Error(), "JOBSUCHE_MAX_ATTEMPTS")
	assert.Contains(t, err.Error(), "NEO4J_USERNAME, NEO4J_PASSWORD")
}

func TestLoadWatchNeedsQueriesAndGraph(t *testing.T) {
	clearEnv(t)
	t.Setenv("WATCH_SCHEDULE", "@daily")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WATCH_QUERIES, NEO4J_URI")
}

func TestParseWatchQueries(t *testing.T) {
	got, err := ParseWatchQueries(" Koch @ München ;;Bäcker@")
	require.NoError(t, err)
	assert.Equal(t, []WatchQuery{
		{Title: "Koch", Location: "München"},
		{Title: "Bäcker"},
	}, got)
	assert.Equal(t, "Koch@München", got[0].String())

	_, err = ParseWatchQueries("@Berlin")
	assert.Error(t, err)
}
