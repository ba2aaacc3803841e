// Package client talks to the recipe store's REST API.
//
// Every mutation carries commit attribution (message, author name and
// optionally email) as query parameters; the server turns it into a git
// commit. Attribution is validated before any request is issued, so a
// malformed commit never reaches the server.
//
// Any non-success response becomes a *ResponseError whose message is the
// response body text. Callers never receive a partially decoded value.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Doer executes HTTP requests. *http.Client satisfies it; tests substitute
// fakes.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the transport.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) { c.http = d }
}

// WithTimeout sets the request timeout of the default transport. It has
// no effect on a Doer installed with WithHTTPClient that is not an
// *http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if hc, ok := c.http.(*http.Client); ok {
			hc.Timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithRequestIDs overrides the request id generator.
func WithRequestIDs(g RequestIDGenerator) Option {
	return func(c *Client) { c.ids = g }
}

// Client is the versioned-entity REST client.
type Client struct {
	base *url.URL
	http Doer
	log  *slog.Logger
	ids  RequestIDGenerator
}

// New creates a client for the API served at baseURL, e.g.
// "http://localhost:8080". Paths such as /api/recipes are appended to it.
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", baseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid server URL %q: scheme must be http or https", baseURL)
	}
	if base.Path == "" {
		base.Path = "/"
	}

	c := &Client{
		base: base,
		http: &http.Client{Timeout: 30 * time.Second},
		log:  slog.Default(),
		ids:  UUIDv7Generator{},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// BaseURL returns the server URL the client was created with.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// endpoint joins escaped path segments onto the base URL.
func (c *Client) endpoint(query url.Values, segments ...string) *url.URL {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	u := c.base.JoinPath(escaped...)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u
}

// call is the single request path. body, when non-nil, is sent as JSON;
// out, when non-nil, receives the decoded response.
func (c *Client) call(ctx context.Context, op, method string, u *url.URL, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	reqID := c.ids.Generate()
	req.Header.Set(HeaderRequestID, reqID)

	c.log.Debug("api request", "op", op, "method", method, "url", u.Redacted(), "request_id", reqID)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: request failed: %w", op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}

	c.log.Debug("api response", "op", op, "status", resp.StatusCode, "bytes", len(respBody),
		"elapsed", time.Since(start), "request_id", reqID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ResponseError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &DecodeError{Op: op, Err: err}
	}
	return nil
}
