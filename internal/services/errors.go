package services

import "errors"

// Sentinel errors mapped to HTTP statuses by the handlers.
var (
	// ErrNotFound: the referenced invoice or user does not exist.
	ErrNotFound = errors.New("not found")
	// ErrStorageUnavailable wraps opaque store failures; retryable by the
	// client, never swallowed into a success response.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrLimitReached: the plan gate blocked an invoice creation.
	ErrLimitReached = errors.New("invoice limit reached")
)

// ValidationError carries the first violated rule plus the full field map.
type ValidationError struct {
	Message    string
	Violations map[string]string
}

func (e *ValidationError) Error() string { return e.Message }
