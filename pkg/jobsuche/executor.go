package jobsuche

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

const (
	apiKeyHeader = "X-API-Key"
	maxErrorBody = 4096
	maxBody      = 16 << 20
)

// RetryPolicy bounds retries of rate-limited, 5xx and transport failures.
// The computed delay doubles from BaseDelay per retry and is capped at
// MaxDelay. A server-supplied Retry-After is honoured as given.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryPolicy is used for zero fields of Config.Retry.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts: 4,
	BaseDelay:   time.Second,
	MaxDelay:    30 * time.Second,
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultRetryPolicy.MaxAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = DefaultRetryPolicy.BaseDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = DefaultRetryPolicy.MaxDelay
	}
	if p.MaxDelay < p.BaseDelay {
		p.MaxDelay = p.BaseDelay
	}
	return p
}

// callBackOff is the backoff state of one logical call. It prefers the
// last Retry-After hint over the exponential delay and stops when the
// wait would outlive the context deadline.
type callBackOff struct {
	exp        *backoff.ExponentialBackOff
	retryAfter time.Duration
	deadline   time.Time
	now        func() time.Time
}

func (p RetryPolicy) newBackOff(ctx context.Context, now func() time.Time) *callBackOff {
	exp := &backoff.ExponentialBackOff{
		InitialInterval:     p.BaseDelay,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         p.MaxDelay,
	}
	exp.Reset()
	b := &callBackOff{exp: exp, now: now}
	if deadline, ok := ctx.Deadline(); ok {
		b.deadline = deadline
	}
	return b
}

func (b *callBackOff) NextBackOff() time.Duration {
	wait := b.retryAfter
	if wait <= 0 {
		wait = b.exp.NextBackOff()
		if wait == backoff.Stop {
			return backoff.Stop
		}
	}
	if !b.deadline.IsZero() && b.now().Add(wait).After(b.deadline) {
		return backoff.Stop
	}
	return wait
}

func (b *callBackOff) Reset() {
	b.exp.Reset()
	b.retryAfter = 0
}

type request struct {
	path   []string
	query  url.Values
	accept string
}

type response struct {
	status int
	header http.Header
	body   []byte
}

// execute performs one logical call, retrying retryable failures under the
// client's RetryPolicy. The returned error is the last classified one.
func (c *Client) execute(ctx context.Context, req request) (*response, error) {
	endpoint := c.endpoint(req)
	bo := c.retry.newBackOff(ctx, c.now)
	attempts := 0
	var lastErr error

	operation := func() (*response, error) {
		attempts++
		resp, err := c.roundTrip(ctx, endpoint, req.accept)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !retryable(err) {
			return nil, backoff.Permanent(err)
		}
		bo.retryAfter = retryAfterOf(err)
		return nil, err
	}

	notify := func(err error, wait time.Duration) {
		c.logger.Warn("jobsuche request failed, retrying",
			zap.String("url", endpoint),
			zap.Int("attempt", attempts),
			zap.Int("max_attempts", c.retry.MaxAttempts),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	resp, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(uint(c.retry.MaxAttempts)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(notify),
	)
	if err == nil {
		return resp, nil
	}

	// Anything but the last round-trip error means the wait was canceled.
	if err != lastErr {
		return nil, fmt.Errorf("jobsuche: retry wait canceled: %w", err)
	}
	if retryable(err) {
		c.logger.Warn("jobsuche request failed, retries exhausted",
			zap.String("url", endpoint),
			zap.Int("attempts", attempts),
			zap.Error(err),
		)
	}
	return nil, withAttempts(err, attempts)
}

func (c *Client) endpoint(req request) string {
	u := c.baseURL + "/" + strings.Join(escapeSegments(req.path), "/")
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}
	return u
}

func escapeSegments(path []string) []string {
	out := make([]string, len(path))
	for i, seg := range path {
		out[i] = url.PathEscape(seg)
	}
	return out
}

func (c *Client) roundTrip(ctx context.Context, endpoint, accept string) (*response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("jobsuche: build request: %w", err)
	}
	httpReq.Header.Set(apiKeyHeader, c.apiKey)
	if accept == "" {
		accept = "application/json"
	}
	httpReq.Header.Set("Accept", accept)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("jobsuche: request canceled: %w", ctxErr)
		}
		return nil, &TransportError{Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	c.logger.Debug("jobsuche response", zap.String("url", endpoint), zap.Int("status", resp.StatusCode))

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("jobsuche: request canceled: %w", ctxErr)
			}
			return nil, &TransportError{Err: fmt.Errorf("read body: %w", err)}
		}
		return &response{status: resp.StatusCode, header: resp.Header, body: body}, nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Kind:       classifyStatus(resp.StatusCode),
		Body:       strings.TrimSpace(string(body)),
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		apiErr.RetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"), c.now())
	}
	return nil, apiErr
}

// parseRetryAfter reads delta-seconds or an HTTP-date. Unparseable or past
// values yield zero, which means "use the computed backoff".
func parseRetryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}

func retryAfterOf(err error) time.Duration {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.RetryAfter
	}
	return 0
}

func withAttempts(err error, attempts int) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		apiErr.Attempts = attempts
		return err
	}
	var tErr *TransportError
	if errors.As(err, &tErr) {
		tErr.Attempts = attempts
	}
	return err
}
