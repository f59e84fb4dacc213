// Package query implements the HTTP client for the question-answering backend.
// Each call is one independent POST with no retry, no caching and no
// client-imposed timeout.
package query

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/longkey1/askdoc/internal/askdoc"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is where the backend listens when run locally
const DefaultBaseURL = "http://localhost:8000"

// Client implements askdoc.Querier against the backend's /query route
type Client struct {
	baseURL    string
	httpClient *http.Client
	ids        IDGenerator
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient overrides the transport. The default has no timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithIDGenerator overrides the correlation token source
func WithIDGenerator(ids IDGenerator) Option {
	return func(c *Client) {
		c.ids = ids
	}
}

var _ askdoc.Querier = (*Client)(nil)

// NewClient creates a new client for the backend at baseURL
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		ids:        UUIDGenerator{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend base URL the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Send posts query and returns the reply text
func (c *Client) Send(ctx context.Context, query string) (string, error) {
	resp, err := c.Ask(ctx, query)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// Ask posts query and returns the whole decoded response, sources included
func (c *Client) Ask(ctx context.Context, query string) (*Response, error) {
	reqBody := Request{
		Query: query,
		Metadata: Metadata{
			SessionID: c.ids.SessionID(),
			UserID:    c.ids.UserID(),
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Message: "error marshaling request", Cause: err}
	}

	endpoint := askdoc.Endpoint(c.baseURL, askdoc.QueryPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "error creating request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	log.Debug().
		Str("endpoint", endpoint).
		Str("session_id", reqBody.Metadata.SessionID).
		Str("user_id", reqBody.Metadata.UserID).
		Int("query_len", len(query)).
		Msg("sending query")

	body, status, err := c.do(req)
	if err != nil {
		return nil, err
	}

	if status < 200 || status > 299 {
		return nil, &Error{
			Kind:       KindProtocol,
			StatusCode: status,
			Message:    "backend returned error",
			Cause:      fmt.Errorf("%s", truncate(string(body), 200)),
		}
	}

	var result Response
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &Error{Kind: KindMalformed, StatusCode: status, Message: "error parsing response", Cause: err}
	}
	if result.Response == nil {
		return nil, &Error{Kind: KindMalformed, StatusCode: status, Message: "response field missing"}
	}

	log.Debug().
		Str("session_id", reqBody.Metadata.SessionID).
		Int("status", status).
		Int("sources", len(result.Sources)).
		Msg("query answered")

	return &result, nil
}

// Health probes the backend's /health route
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	endpoint := askdoc.Endpoint(c.baseURL, askdoc.HealthPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "error creating request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")

	body, status, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var result HealthStatus
	if err := json.Unmarshal(body, &result); err != nil {
		if status < 200 || status > 299 {
			return nil, &Error{Kind: KindProtocol, StatusCode: status, Message: "health check failed"}
		}
		return nil, &Error{Kind: KindMalformed, StatusCode: status, Message: "error parsing health response", Cause: err}
	}
	if status < 200 || status > 299 {
		return &result, &Error{Kind: KindProtocol, StatusCode: status, Message: "health check failed"}
	}

	return &result, nil
}

// do sends req and reads the whole body
func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, &Error{Kind: KindTransport, Message: "error sending request", Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &Error{Kind: KindTransport, StatusCode: resp.StatusCode, Message: "error reading response", Cause: err}
	}

	return body, resp.StatusCode, nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
