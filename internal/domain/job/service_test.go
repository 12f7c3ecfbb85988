package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wunderfrucht/jobsuche/internal/domain"
	"github.com/wunderfrucht/jobsuche/pkg/jobsuche"
)

type memRepo struct {
	mu    sync.Mutex
	jobs  map[string]domain.Job
	calls int
	err   error
}

func newMemRepo() *memRepo { return &memRepo{jobs: map[string]domain.Job{}} }

func (r *memRepo) UpsertJobs(_ context.Context, jobs []domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return r.err
	}
	for _, j := range jobs {
		r.jobs[j.Refnr] = j
	}
	return nil
}

func (r *memRepo) EmployerStats(_ context.Context, limit int) ([]domain.EmployerStat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int64{}
	for _, j := range r.jobs {
		counts[j.Employer.Name]++
	}
	var out []domain.EmployerStat
	for name, n := range counts {
		out = append(out, domain.EmployerStat{Employer: name, Jobs: n})
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// fakeAPI serves total jobs; pages at or after failFrom answer 500.
type fakeAPI struct {
	total    int
	failFrom int
	gone     map[string]bool
}

func (f fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/pc/v4/jobs":
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		size, _ := strconv.Atoi(r.URL.Query().Get("size"))
		if f.failFrom > 0 && page >= f.failFrom {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var jobs []map[string]any
		for i := (page - 1) * size; i < page*size && i < f.total; i++ {
			jobs = append(jobs, map[string]any{
				"refnr":                           fmt.Sprintf("R-%d", i),
				"beruf":                           "Koch/Köchin",
				"arbeitgeber":                     fmt.Sprintf("Employer %d", i%3),
				"aktuelleVeroeffentlichungsdatum": "2025-02-14",
				"arbeitsort":                      map[string]any{"plz": "10115", "ort": "Berlin"},
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"stellenangebote": jobs, "maxErgebnisse": f.total})
	case strings.HasPrefix(r.URL.Path, "/pc/v2/jobdetails/"):
		refnr, err := jobsuche.DecodeRefnr(strings.TrimPrefix(r.URL.Path, "/pc/v2/jobdetails/"))
		if err != nil || f.gone[refnr] {
			http.NotFound(w, r)
			return
		}
		if refnr == "forbidden" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"titel": "Detail " + refnr})
	case r.URL.Path == "/ed/v1/arbeitgeberlogo/known":
		_, _ = w.Write([]byte("PNG"))
	default:
		http.NotFound(w, r)
	}
}

var fixedNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, api http.Handler, repo Repository) Service {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	client, err := jobsuche.NewClient(jobsuche.Config{
		BaseURL: srv.URL,
		Retry:   jobsuche.RetryPolicy{MaxAttempts: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond},
	})
	require.NoError(t, err)

	svc, err := NewService(
		WithClient(client),
		WithRepository(repo),
		WithClock(func() time.Time { return fixedNow }),
		WithDetailConcurrency(2),
	)
	require.NoError(t, err)
	return svc
}

func TestNewServiceRequiresClient(t *testing.T) {
	_, err := NewService()
	assert.Error(t, err)
}

func TestSearchStoresPage(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(t, fakeAPI{total: 30}, repo)

	res, err := svc.Search(context.Background(), domain.SearchParams{Title: "Koch", Size: 10})
	require.NoError(t, err)

	assert.Len(t, res.Jobs, 10)
	assert.EqualValues(t, 30, res.Total)
	assert.Equal(t, fixedNow, res.FetchedAt)
	assert.Equal(t, "2025-02-14", res.Jobs[0].PublishedAt)
	assert.Equal(t, domain.NewJobID("R-0"), res.Jobs[0].ID)
	assert.Equal(t, "https://www.arbeitsagentur.de/jobsuche/jobdetail/R-0", res.Jobs[0].URL)
	assert.Len(t, repo.jobs, 10)
}

func TestSearchRejectsInvalidParams(t *testing.T) {
	svc := newTestService(t, fakeAPI{}, nil)

	_, err := svc.Search(context.Background(), domain.SearchParams{Size: 500})
	var verr *jobsuche.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("size"))
}

func TestCollectStopsAtLimit(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(t, fakeAPI{total: 100}, repo)

	res, err := svc.Collect(context.Background(), domain.SearchParams{Size: 10}, 25)
	require.NoError(t, err)

	assert.Len(t, res.Jobs, 25)
	assert.True(t, res.Limited)
	assert.Equal(t, 3, res.Pages)
	assert.EqualValues(t, 100, res.Total)
	assert.Len(t, repo.jobs, 25)
}

func TestCollectDrainsSmallResultSet(t *testing.T) {
	svc := newTestService(t, fakeAPI{total: 12}, nil)

	res, err := svc.Collect(context.Background(), domain.SearchParams{Size: 5}, 0)
	require.NoError(t, err)
	assert.Len(t, res.Jobs, 12)
	assert.False(t, res.Limited)
	assert.False(t, res.Truncated)
}

func TestCollectReturnsPartialResultsOnFailure(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(t, fakeAPI{total: 50, failFrom: 3}, repo)

	res, err := svc.Collect(context.Background(), domain.SearchParams{Size: 10}, 100)
	require.Error(t, err)
	assert.ErrorIs(t, err, jobsuche.ErrServer)

	assert.Len(t, res.Jobs, 20)
	assert.Equal(t, 2, res.Pages)
	assert.Len(t, repo.jobs, 20, "partial results are stored")
}

func TestCollectReportsStoreFailure(t *testing.T) {
	repo := newMemRepo()
	repo.err = errors.New("neo4j down")
	svc := newTestService(t, fakeAPI{total: 5}, repo)

	_, err := svc.Collect(context.Background(), domain.SearchParams{}, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "neo4j down")
}

func TestDetailsReportsMissing(t *testing.T) {
	svc := newTestService(t, fakeAPI{gone: map[string]bool{"R-2": true}}, nil)

	res, err := svc.Details(context.Background(), []string{"R-1", "R-2", "R-3", "R-1", " "})
	require.NoError(t, err)

	require.Len(t, res.Details, 2)
	assert.Equal(t, "Detail R-1", res.Details[0].Title)
	assert.Equal(t, "R-1", res.Details[0].Refnr)
	assert.Equal(t, "Detail R-3", res.Details[1].Title)
	assert.Equal(t, []string{"R-2"}, res.Missing)
}

func TestDetailsFailsOnOtherErrors(t *testing.T) {
	svc := newTestService(t, fakeAPI{}, nil)

	_, err := svc.Details(context.Background(), []string{"R-1", "forbidden"})
	require.Error(t, err)
	assert.ErrorIs(t, err, jobsuche.ErrForbidden)
}

func TestDetailsValidatesBatch(t *testing.T) {
	svc := newTestService(t, fakeAPI{}, nil)

	_, err := svc.Details(context.Background(), nil)
	assert.Error(t, err)

	many := make([]string, MaxDetailBatch+1)
	for i := range many {
		many[i] = fmt.Sprintf("R-%d", i)
	}
	_, err = svc.Details(context.Background(), many)
	assert.Error(t, err)
}

func TestLogo(t *testing.T) {
	svc := newTestService(t, fakeAPI{}, nil)

	png, ok, err := svc.Logo(context.Background(), "known")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("PNG"), png)

	png, ok, err = svc.Logo(context.Background(), "unknown")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, png)
}

func TestEmployerStats(t *testing.T) {
	svc := newTestService(t, fakeAPI{total: 9}, nil)
	_, err := svc.EmployerStats(context.Background(), 5)
	assert.ErrorIs(t, err, ErrNoRepository)

	repo := newMemRepo()
	svc = newTestService(t, fakeAPI{total: 9}, repo)
	_, err = svc.Search(context.Background(), domain.SearchParams{Size: 9})
	require.NoError(t, err)

	stats, err := svc.EmployerStats(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, stats, 3)
}
