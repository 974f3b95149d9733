// File: internal/backend/errors.go
package backend

import (
	"fmt"
	"net/http"

	"github.com/hackparv/operate/api/schemas"
)

// ServiceUnavailableError is the terminal error surfaced when every retry
// attempt against a backend has been exhausted on transient failures.
type ServiceUnavailableError struct {
	Family   schemas.Family
	Attempts int
	Err      error
}

func (e *ServiceUnavailableError) Error() string {
	return fmt.Sprintf("%s backend unreachable after %d attempts: %v", e.Family, e.Attempts, e.Err)
}

func (e *ServiceUnavailableError) Unwrap() error { return e.Err }

// ResponseParseError means the backend replied but the content did not match
// the action protocol. Non-retryable; fatal for the turn.
type ResponseParseError struct {
	Raw string
	Err error
}

func (e *ResponseParseError) Error() string {
	return fmt.Sprintf("backend response did not match the action protocol: %v", e.Err)
}

func (e *ResponseParseError) Unwrap() error { return e.Err }

// APIError carries a non-2xx backend HTTP status.
type APIError struct {
	Family     schemas.Family
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error: status %d, body: %s", e.Family, e.StatusCode, e.Body)
}

// Transient reports whether the status indicates a condition worth retrying:
// rate limiting and server-side failures. Authentication and other client
// errors are permanent.
func (e *APIError) Transient() bool {
	switch e.StatusCode {
	case http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// transientError marks an error as retryable for the retry policy. Anything
// not wrapped this way propagates immediately without consuming an attempt.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// retryable marks err as a transient failure.
func retryable(err error) error {
	return &transientError{err: err}
}
