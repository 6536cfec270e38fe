// Package datamerge wraps outbound calls to the DataMerge company-data REST
// API. One Client equals one fixed (credential, base URL) pairing; the
// session layer owns the mapping from callers to clients.
package datamerge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cast"
)

const (
	// DefaultBaseURL is the production DataMerge API endpoint.
	DefaultBaseURL = "https://api.datamerge.io/v1"

	// defaultJobStatusPath is where job snapshots are fetched. Later API
	// revisions moved this path around, so it is configuration rather
	// than contract.
	defaultJobStatusPath = "/job/%s/status"

	defaultRequestTimeout = 30 * time.Second
	maxResponseBody       = 4 << 20
)

// Client is an immutable handle on the upstream API. Construct a new one
// rather than mutating an existing instance; the session store relies on
// clients never changing after construction.
type Client struct {
	apiKey        string
	baseURL       string
	jobStatusPath string
	httpClient    *http.Client
}

// Option customizes client construction.
type Option func(*Client)

// WithBaseURL overrides the default API endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithHTTPClient substitutes the underlying HTTP client (tests, proxies).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithJobStatusPath overrides the job status path template. The template
// must contain exactly one %s verb for the job id.
func WithJobStatusPath(format string) Option {
	return func(c *Client) {
		if format != "" {
			c.jobStatusPath = format
		}
	}
}

// NewClient builds a client for one credential. Construction performs no
// I/O; the first request happens on the first operation call.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:        apiKey,
		baseURL:       DefaultBaseURL,
		jobStatusPath: defaultJobStatusPath,
		httpClient:    &http.Client{Timeout: defaultRequestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIKey returns the credential this client was built with. Used by the
// session layer to decide whether an explicit configure call changes
// anything; never logged.
func (c *Client) APIKey() string { return c.apiKey }

// BaseURL returns the endpoint this client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// do performs one authenticated round-trip and returns the raw body.
// Non-2xx responses become errors carrying whatever human-readable message
// could be extracted from the body.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("datamerge: encode %s %s request: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("datamerge: build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("datamerge: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("datamerge: read %s %s response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("datamerge: %s %s: %s", method, path, errorMessage(payload, resp.Status))
	}
	return payload, nil
}

func decodeMap(payload []byte) (map[string]any, error) {
	if len(payload) == 0 {
		return map[string]any{}, nil
	}
	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("datamerge: decode response: %w", err)
	}
	return raw, nil
}

// recordFrom unwraps the {"record": {...}} envelope some lookup endpoints
// use, falling back to the whole object when the envelope is absent.
func recordFrom(raw map[string]any) map[string]any {
	if rec, ok := raw["record"].(map[string]any); ok {
		return rec
	}
	return raw
}

func pathEscape(s string) string { return url.PathEscape(s) }

func queryInt(values url.Values, key string, v int) {
	if v > 0 {
		values.Set(key, strconv.Itoa(v))
	}
}

func toRecordSlice(v any) []map[string]any {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func firstString(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := raw[key]; ok {
			if s := cast.ToString(v); s != "" {
				return s
			}
		}
	}
	return ""
}
