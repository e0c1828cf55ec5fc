package core

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for comparison using errors.Is()
// These are generic errors that can be wrapped with additional context
var (
	// Authentication classifications. These four are terminal: the request
	// wrapper never retries them.
	ErrAccountNotFound      = errors.New("account not found")
	ErrInvalidPassword      = errors.New("invalid password")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrSessionExpired       = errors.New("session expired")

	// Transport errors. A client-side timeout is terminal like the auth
	// classifications; the wrapper does not feed it back into the
	// backoff loop.
	ErrRequestTimeout     = errors.New("request timeout")
	ErrServerError        = errors.New("server error")
	ErrMaxRetriesExceeded = errors.New("maximum retries exceeded")
	ErrCircuitBreakerOpen = errors.New("circuit breaker is open")

	// Configuration errors
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrMissingConfiguration = errors.New("missing required configuration")
)

// IsAuthError reports whether err is one of the four authentication
// classifications that short-circuit the retry loop.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrInvalidPassword) ||
		errors.Is(err, ErrAuthenticationFailed) ||
		errors.Is(err, ErrSessionExpired)
}

// APIError provides structured error information for a failed backend call.
// It implements the error interface and supports error wrapping.
type APIError struct {
	Op         string // Operation that failed (e.g., "products.GetByID")
	Endpoint   string // Backend endpoint path
	StatusCode int    // HTTP status code, 0 when the request never completed
	Message    string // Server-supplied or synthesized message
	Err        error  // Underlying error for wrapping
}

// Error returns the string representation of the error
func (e *APIError) Error() string {
	switch {
	case e.Message != "":
		if e.Op != "" {
			return fmt.Sprintf("%s: %s", e.Op, e.Message)
		}
		return e.Message
	case e.Err != nil:
		if e.Op != "" {
			return fmt.Sprintf("%s: %v", e.Op, e.Err)
		}
		return e.Err.Error()
	default:
		return fmt.Sprintf("HTTP %d on %s", e.StatusCode, e.Endpoint)
	}
}

// Unwrap returns the underlying error for use with errors.Is/As
func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError creates a new APIError wrapping err
func NewAPIError(op, endpoint string, status int, err error) *APIError {
	return &APIError{
		Op:         op,
		Endpoint:   endpoint,
		StatusCode: status,
		Err:        err,
	}
}

// HTTPStatusError builds the unclassified "HTTP <status>: <text>" error
func HTTPStatusError(endpoint string, status int, message string) *APIError {
	return &APIError{
		Endpoint:   endpoint,
		StatusCode: status,
		Message:    fmt.Sprintf("HTTP %d: %s", status, message),
	}
}
