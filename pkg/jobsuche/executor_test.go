package jobsuche

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusHandler(calls *atomic.Int32, statuses ...int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := int(calls.Add(1)) - 1
		status := statuses[len(statuses)-1]
		if n < len(statuses) {
			status = statuses[n]
		}
		if status == http.StatusOK {
			_, _ = w.Write([]byte(`{"stellenangebote":[],"maxErgebnisse":0}`))
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"message":"nope"}`))
	}
}

func TestExecuteClassifiesStatus(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{status: http.StatusBadRequest, want: ErrBadRequest},
		{status: http.StatusUnauthorized, want: ErrUnauthorized},
		{status: http.StatusForbidden, want: ErrForbidden},
		{status: http.StatusNotFound, want: ErrNotFound},
		{status: http.StatusUnprocessableEntity, want: ErrBadRequest},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			var calls atomic.Int32
			c := newTestClient(t, statusHandler(&calls, tt.status))

			_, err := c.Search(context.Background(), SearchQuery{})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.EqualValues(t, 1, calls.Load(), "client errors are not retried")

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Contains(t, apiErr.Body, "nope")
		})
	}
}

func TestExecuteRetriesServerErrorsUntilSuccess(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, statusHandler(&calls, http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusOK))

	page, err := c.Search(context.Background(), SearchQuery{})
	require.NoError(t, err)
	assert.Empty(t, page.Jobs)
	assert.EqualValues(t, 3, calls.Load())
}

func rateLimitedHandler(calls *atomic.Int32, retryAfter string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", retryAfter)
		w.WriteHeader(http.StatusTooManyRequests)
	}
}

func TestExecuteStopsAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, statusHandler(&calls, http.StatusTooManyRequests))

	_, err := c.Search(context.Background(), SearchQuery{})
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrRateLimited)
	assert.EqualValues(t, fastRetry.MaxAttempts, calls.Load())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, fastRetry.MaxAttempts, apiErr.Attempts)
}

func TestExecuteHonoursRetryAfterBeyondMaxDelay(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, rateLimitedHandler(&calls, "1"))
	c.retry = RetryPolicy{MaxAttempts: 2, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}

	start := time.Now()
	_, err := c.Search(context.Background(), SearchQuery{})
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrRateLimited)
	assert.EqualValues(t, 2, calls.Load())
	assert.GreaterOrEqual(t, time.Since(start), time.Second, "Retry-After is not capped by MaxDelay")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, time.Second, apiErr.RetryAfter)
}

func TestExecuteRetryAfterBoundedByDeadline(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, rateLimitedHandler(&calls, "120"))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	_, err := c.Search(ctx, SearchQuery{})
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrRateLimited)
	assert.EqualValues(t, 1, calls.Load())
	assert.Less(t, time.Since(start), time.Second)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 120*time.Second, apiErr.RetryAfter)
	assert.Equal(t, 1, apiErr.Attempts)
}

type failingDoer struct {
	calls atomic.Int32
}

func (d *failingDoer) Do(*http.Request) (*http.Response, error) {
	d.calls.Add(1)
	return nil, errors.New("connection reset by peer")
}

func TestExecuteRetriesTransportFailures(t *testing.T) {
	doer := &failingDoer{}
	c, err := NewClient(Config{BaseURL: "http://jobsuche.invalid", HTTPClient: doer, Retry: fastRetry})
	require.NoError(t, err)

	_, err = c.Search(context.Background(), SearchQuery{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransient)
	assert.EqualValues(t, fastRetry.MaxAttempts, doer.calls.Load())

	var tErr *TransportError
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, fastRetry.MaxAttempts, tErr.Attempts)
}

func TestExecuteDoesNotRetryCancellation(t *testing.T) {
	doer := &failingDoer{}
	c, err := NewClient(Config{BaseURL: "http://jobsuche.invalid", HTTPClient: doer, Retry: fastRetry})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.Search(ctx, SearchQuery{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrTransient)
	assert.EqualValues(t, 1, doer.calls.Load())
}

func TestExecuteReturnsLastErrorWhenDeadlineTooClose(t *testing.T) {
	var calls atomic.Int32
	srv := statusHandler(&calls, http.StatusInternalServerError)
	c := newTestClient(t, srv)
	c.retry = RetryPolicy{MaxAttempts: 4, BaseDelay: time.Hour, MaxDelay: time.Hour}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	_, err := c.Search(ctx, SearchQuery{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServer)
	assert.EqualValues(t, 1, calls.Load())
	assert.Less(t, time.Since(start), time.Second)
}

func TestCallBackOff(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 6, BaseDelay: time.Second, MaxDelay: 5 * time.Second}
	b := p.newBackOff(context.Background(), time.Now)

	var delays []time.Duration
	for range 5 {
		delays = append(delays, b.NextBackOff())
	}
	assert.Equal(t, []time.Duration{
		time.Second, 2 * time.Second, 4 * time.Second, 5 * time.Second, 5 * time.Second,
	}, delays)

	b.Reset()
	b.retryAfter = 2 * time.Minute
	assert.Equal(t, 2*time.Minute, b.NextBackOff())
}

func TestCallBackOffStopsBeforeDeadline(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx, cancel := context.WithDeadline(context.Background(), now.Add(3*time.Second))
	defer cancel()

	p := RetryPolicy{MaxAttempts: 6, BaseDelay: 2 * time.Second, MaxDelay: time.Minute}
	b := p.newBackOff(ctx, func() time.Time { return now })

	assert.Equal(t, 2*time.Second, b.NextBackOff())
	assert.Equal(t, backoff.Stop, b.NextBackOff())
}

func TestRetryPolicyDefaults(t *testing.T) {
	assert.Equal(t, DefaultRetryPolicy, RetryPolicy{}.withDefaults())

	p := RetryPolicy{BaseDelay: time.Minute, MaxDelay: time.Second}.withDefaults()
	assert.Equal(t, time.Minute, p.MaxDelay)
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{name: "seconds", value: "3", want: 3 * time.Second},
		{name: "padded seconds", value: " 7 ", want: 7 * time.Second},
		{name: "http date", value: now.Add(10 * time.Second).Format(http.TimeFormat), want: 10 * time.Second},
		{name: "past date", value: now.Add(-time.Minute).Format(http.TimeFormat), want: 0},
		{name: "empty", value: "", want: 0},
		{name: "negative", value: "-4", want: 0},
		{name: "garbage", value: "soon", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseRetryAfter(tt.value, now))
		})
	}
}
