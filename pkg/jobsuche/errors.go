package jobsuche

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Error kinds. Match them with errors.Is; the concrete error is an *APIError,
// *TransportError or *ValidationError carrying the details.
var (
	ErrNotFound           = errors.New("jobsuche: resource not found")
	ErrForbidden          = errors.New("jobsuche: forbidden")
	ErrUnauthorized       = errors.New("jobsuche: unauthorized")
	ErrBadRequest         = errors.New("jobsuche: request rejected")
	ErrRateLimited        = errors.New("jobsuche: rate limited")
	ErrServer             = errors.New("jobsuche: server error")
	ErrTransient          = errors.New("jobsuche: transient transport failure")
	ErrMalformedReference = errors.New("jobsuche: malformed reference number")
)

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Kind       error
	// Body is the trimmed error body. Its shape is not stable; treat it as diagnostic.
	Body       string
	RetryAfter time.Duration
	Attempts   int
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%v (%d %s)", e.Kind, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Attempts > 1 {
		msg += fmt.Sprintf(" after %d attempts", e.Attempts)
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *APIError) Unwrap() error { return e.Kind }

// TransportError wraps a failure below HTTP (connect, TLS, timeout, body read).
type TransportError struct {
	Err      error
	Attempts int
}

func (e *TransportError) Error() string {
	if e.Attempts > 1 {
		return fmt.Sprintf("%v after %d attempts: %v", ErrTransient, e.Attempts, e.Err)
	}
	return fmt.Sprintf("%v: %v", ErrTransient, e.Err)
}

func (e *TransportError) Unwrap() []error { return []error{ErrTransient, e.Err} }

// FieldError names one invalid input.
type FieldError struct {
	Field  string
	Reason string
}

// ValidationError reports every invalid field of a query or call argument.
// It is produced locally and never retried.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Reason)
	}
	return "jobsuche: invalid " + strings.Join(parts, "; ")
}

// Has reports whether field is among the offending fields.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Reason: reason}}}
}

func classifyStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case status >= http.StatusInternalServerError:
		return ErrServer
	default:
		return ErrBadRequest
	}
}

func retryable(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrServer) || errors.Is(err, ErrTransient)
}
