package mcp

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wunderfrucht/jobsuche/internal/config"
	"github.com/wunderfrucht/jobsuche/internal/domain"
	"github.com/wunderfrucht/jobsuche/pkg/logging"
)

type stubService struct{}

func (stubService) Search(context.Context, domain.SearchParams) (domain.JobSearchResult, error) {
	return domain.JobSearchResult{
		Jobs:  []domain.JobSummary{{Refnr: "10001-1", Title: "Koch", Employer: "Hotel Adlon", Location: "Berlin"}},
		Total: 1,
		Page:  1,
		Size:  50,
	}, nil
}

func (stubService) Collect(context.Context, domain.SearchParams, int) (domain.CollectResult, error) {
	return domain.CollectResult{}, nil
}

func (stubService) Details(context.Context, []string) (domain.DetailsResult, error) {
	return domain.DetailsResult{}, nil
}

func (stubService) Logo(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (stubService) EmployerStats(context.Context, int) ([]domain.EmployerStat, error) {
	return nil, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv, err := NewServer(logging.NewNop(), config.Config{Host: "127.0.0.1", Port: "0"}, &Resources{JobService: stubService{}})
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestNewServerRequiresResources(t *testing.T) {
	_, err := NewServer(logging.NewNop(), config.Config{}, nil)
	require.Error(t, err)

	_, err = NewServer(logging.NewNop(), config.Config{}, &Resources{})
	require.Error(t, err)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestStreamableEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "0"}, nil)
	session, err := client.Connect(ctx, &sdkmcp.StreamableClientTransport{Endpoint: ts.URL + StreamPath}, nil)
	require.NoError(t, err)
	defer func() { _ = session.Close() }()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, tools.Tools, 7)

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "job_search",
		Arguments: map[string]any{"title": "Koch"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "10001-1 | Koch")
}

func TestResourcesShutdownWithoutNeo4j(t *testing.T) {
	var res *Resources
	assert.NoError(t, res.Shutdown(context.Background()))
	assert.NoError(t, (&Resources{}).Shutdown(context.Background()))
}
