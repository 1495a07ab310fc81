package driven

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// APIError represents a structured error response from the search backend.
// The adapter decodes the backend's error envelope into this type so that
// core services can classify failures without seeing transport details.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend: API error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("backend: API error %d: %s", e.StatusCode, e.Message)
}

// ThrottleError is returned when the backend keeps throttling after the
// adapter's Retry-After wait budget is spent.
type ThrottleError struct {
	RetryAfter time.Duration
}

func (e *ThrottleError) Error() string {
	return fmt.Sprintf("backend: throttled, retry after %s", e.RetryAfter)
}

// capability rejection codes the backend uses to say "this request shape
// is not supported here", as opposed to "this request is wrong".
var capabilityCodes = map[string]bool{
	"capabilitynotsupported": true,
	"unsupportedfeature":     true,
}

// IsCapabilityRejection checks if the error is the backend declining a
// request feature (aggregations, sort, collapse, relevance) rather than
// failing it. These are the only errors the tier engine recovers from.
func IsCapabilityRejection(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.StatusCode != 400 && apiErr.StatusCode != 422 {
		return false
	}
	code := strings.ToLower(apiErr.Code)
	return strings.HasSuffix(code, "notsupported") || capabilityCodes[code]
}

// IsAuthError checks if the error indicates an authentication failure.
func IsAuthError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401 || apiErr.StatusCode == 403
	}
	return false
}

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}

// IsThrottled checks if the error indicates exhausted throttle budget.
func IsThrottled(err error) bool {
	var throttleErr *ThrottleError
	return errors.As(err, &throttleErr)
}
