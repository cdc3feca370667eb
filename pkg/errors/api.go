package errors

import (
	"fmt"
	"time"
)

// Sentinel APIError values for use with errors.Is().
// These match on status code only.
var (
	ErrNotFound     = &APIError{StatusCode: 404}
	ErrUnauthorized = &APIError{StatusCode: 401}
	ErrForbidden    = &APIError{StatusCode: 403}
	ErrRateLimited  = &APIError{StatusCode: 429}
)

// APIError represents an error response from the observation store API.
// It supports error wrapping via Unwrap() and comparison via Is().
type APIError struct {
	StatusCode   int           `json:"statusCode"`
	Message      string        `json:"message"`
	ErrorMessage string        `json:"error"`
	RequestID    string        `json:"-"` // Request ID for debugging
	RetryAfter   time.Duration `json:"-"` // From Retry-After header
	Err          error         `json:"-"` // Underlying error for wrapping
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.ErrorMessage
	}
	switch {
	case msg != "" && e.RequestID != "":
		return fmt.Sprintf("traceview: API error (status %d, request %s): %s", e.StatusCode, e.RequestID, msg)
	case msg != "":
		return fmt.Sprintf("traceview: API error (status %d): %s", e.StatusCode, msg)
	case e.RequestID != "":
		return fmt.Sprintf("traceview: API error (status %d, request %s)", e.StatusCode, e.RequestID)
	default:
		return fmt.Sprintf("traceview: API error (status %d)", e.StatusCode)
	}
}

// Unwrap returns the underlying error for error chain support.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for errors.Is(). It matches on status
// code, allowing comparisons against the sentinel values.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode
}

// IsRetryable reports whether the request may succeed when repeated:
// rate limits and server-side failures are retryable, client errors are
// not.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}

// IsNotFound returns true if the error is a 404 Not Found error.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}
