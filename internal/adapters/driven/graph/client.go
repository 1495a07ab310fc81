// Package graph provides the HTTP adapter for the remote search backend.
package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/meridian-labs/graphseek-cli/internal/core/domain"
	"github.com/meridian-labs/graphseek-cli/internal/core/ports/driven"
	"github.com/meridian-labs/graphseek-cli/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.APIClient = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://graph.microsoft.com/v1.0"
	DefaultTimeout = 30 * time.Second

	// Proactive request budget. The backend throttles per app per tenant;
	// staying under it is cheaper than honouring Retry-After.
	defaultRequestsPerSecond = 10
	defaultBurst             = 5

	// maxThrottleWaits bounds how many Retry-After waits a single Invoke
	// absorbs before giving up with a ThrottleError.
	maxThrottleWaits = 2

	// maxRetryAfter caps a single honoured Retry-After wait.
	maxRetryAfter = 30 * time.Second

	// defaultRetryAfter is used when a throttle response carries no
	// Retry-After header.
	defaultRetryAfter = 2 * time.Second
)

// Config holds configuration for the backend client.
type Config struct {
	// BaseURL is the backend API base URL (default: the v1.0 endpoint).
	BaseURL string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration

	// RequestsPerSecond is the proactive rate limit (default: 10).
	RequestsPerSecond float64

	// Burst is the rate limiter burst size (default: 5).
	Burst int
}

// Client invokes the search backend over HTTPS. It owns transport
// concerns only: rate limiting, throttle waits and decoding the error
// envelope. Request semantics (paths, bodies, auth headers) belong to
// the caller.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// NewClient creates a new backend client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = defaultRequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaultBurst
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
	}
}

// NewFromConfig creates a client from the application config store,
// applying defaults for anything unset.
func NewFromConfig(store driven.ConfigStore) *Client {
	cfg := Config{
		BaseURL: store.GetString("api.base_url"),
	}
	if secs := store.GetInt("api.timeout_seconds"); secs > 0 {
		cfg.Timeout = time.Duration(secs) * time.Second
	}
	return NewClient(cfg)
}

// Invoke issues one request against the backend. Throttle responses
// (429 and 503) are absorbed by waiting out Retry-After, up to the wait
// budget; every other non-2xx status decodes into an APIError.
func (c *Client) Invoke(ctx context.Context, method, path string, body any, query url.Values, headers http.Header) (json.RawMessage, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
	}

	for waits := 0; ; waits++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		raw, retryAfter, err := c.do(ctx, method, path, payload, query, headers)
		if err != nil || retryAfter == 0 {
			return raw, err
		}

		if waits >= maxThrottleWaits {
			return nil, &driven.ThrottleError{RetryAfter: retryAfter}
		}

		logger.Warn("Backend throttled %s %s, waiting %s", method, path, retryAfter)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryAfter):
		}
	}
}

// do performs a single HTTP round trip. A positive retryAfter with nil
// error signals a throttle response.
func (c *Client) do(ctx context.Context, method, path string, payload []byte, query url.Values, headers http.Header) (json.RawMessage, time.Duration, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader = http.NoBody
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrSearchUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable:
		return nil, parseRetryAfter(resp.Header.Get("Retry-After")), nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return respBody, 0, nil
	default:
		return nil, 0, decodeAPIError(resp.StatusCode, respBody)
	}
}

// errorEnvelope is the backend's error response format.
type errorEnvelope struct {
	Error struct {
		Code       string `json:"code"`
		Message    string `json:"message"`
		InnerError struct {
			RequestID string `json:"request-id"`
		} `json:"innerError"`
	} `json:"error"`
}

// decodeAPIError maps a non-2xx response onto APIError. Bodies that are
// not the standard envelope keep their raw text as the message.
func decodeAPIError(status int, body []byte) *driven.APIError {
	apiErr := &driven.APIError{StatusCode: status}

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Code != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		apiErr.RequestID = envelope.Error.InnerError.RequestID
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(string(body))
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

// parseRetryAfter interprets a Retry-After header as either seconds or
// an HTTP date, clamped to the wait cap.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return defaultRetryAfter
	}
	if secs, err := strconv.Atoi(header); err == nil {
		return clampRetryAfter(time.Duration(secs) * time.Second)
	}
	if at, err := http.ParseTime(header); err == nil {
		return clampRetryAfter(time.Until(at))
	}
	return defaultRetryAfter
}

func clampRetryAfter(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultRetryAfter
	}
	if d > maxRetryAfter {
		return maxRetryAfter
	}
	return d
}
