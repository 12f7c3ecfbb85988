package jobsuche

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var fastRetry = RetryPolicy{MaxAttempts: 4, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL, Retry: fastRetry})
	require.NoError(t, err)
	return c
}

// fakeSearch serves a result set of total jobs in pages. It records which
// pages were requested; failAt makes that page answer with failStatus.
type fakeSearch struct {
	mu         sync.Mutex
	total      int
	declared   int
	failAt     int
	failStatus int
	requested  []int
}

func newFakeSearch(total int) *fakeSearch {
	return &fakeSearch{total: total, declared: total}
}

func (f *fakeSearch) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/pc/v4/jobs" {
		http.NotFound(w, r)
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))

	f.mu.Lock()
	f.requested = append(f.requested, page)
	fail := f.failAt != 0 && page == f.failAt
	f.mu.Unlock()

	if fail {
		w.WriteHeader(f.failStatus)
		_, _ = w.Write([]byte(`{"message":"boom"}`))
		return
	}

	jobs := []map[string]any{}
	for i := (page - 1) * size; i < page*size && i < f.total; i++ {
		jobs = append(jobs, map[string]any{
			"refnr":       refnrFor(i),
			"beruf":       "Softwareentwickler/in",
			"titel":       fmt.Sprintf("Job %d", i),
			"arbeitgeber": "ACME GmbH",
			"arbeitsort":  map[string]any{"plz": "10115", "ort": "Berlin"},
		})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"stellenangebote": jobs,
		"maxErgebnisse":   strconv.Itoa(f.declared),
		"page":            strconv.Itoa(page),
		"size":            strconv.Itoa(size),
	})
}

func (f *fakeSearch) pages() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.requested...)
}

func refnrFor(i int) string {
	return fmt.Sprintf("10001-%010d-S", i)
}
