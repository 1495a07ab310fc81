package driven

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// APIClient performs authenticated HTTP calls against the tenant search
// backend. Implementations own transport concerns: base URL, throttling,
// Retry-After waits and error classification. Core services never see a
// raw *http.Response.
type APIClient interface {
	// Invoke sends one request and returns the raw response body.
	// body is JSON-encoded when non-nil. query and headers may be nil.
	// Non-2xx responses are returned as typed adapter errors that
	// callers classify with errors.As.
	Invoke(ctx context.Context, method, path string, body any, query url.Values, headers http.Header) (json.RawMessage, error)
}
