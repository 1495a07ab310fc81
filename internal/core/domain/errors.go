package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed caller input (blank query with
	// no filters, unparseable date). Rejected before any backend call.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// Authentication errors.

	// ErrAuthRequired indicates no valid session is available.
	// Surfaced to the caller as an actionable message, never retried.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthExpired indicates the session has expired and refresh failed.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrTokenRefreshFailed indicates a token refresh operation failed.
	ErrTokenRefreshFailed = errors.New("token refresh failed")

	// Execution errors.

	// ErrTiersExhausted reports that no tier attempt ran at all. When
	// every tier is rejected for capability reasons, the final tier's
	// rejection propagates verbatim instead.
	ErrTiersExhausted = errors.New("all search tiers exhausted")

	// ErrSearchUnavailable indicates the search backend client is not
	// configured.
	ErrSearchUnavailable = errors.New("search backend unavailable")
)
