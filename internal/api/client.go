// Package api is the HTTP client for the dashboard backend. It owns the
// wire contract only; windowing and retry live in the grid package.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/hubdeck/hubdeck/internal/grid"
	"github.com/hubdeck/hubdeck/internal/log"
)

// StatusError reports a non-2xx backend response.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// Client talks to the dashboard backend.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu          sync.Mutex
	collections []Collection
	fetched     bool
}

// NewClient creates a backend client. The token source supplies the bearer
// credential attached to every request; an empty token sends the request
// unauthenticated.
func NewClient(baseURL string, src oauth2.TokenSource) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &bearerTransport{
				source: src,
				base:   http.DefaultTransport,
			},
		},
	}
}

// bearerTransport attaches the session's bearer token to outgoing
// requests. Requests without a token go out bare.
type bearerTransport struct {
	source oauth2.TokenSource
	base   http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	tok, err := t.source.Token()
	if err != nil || tok.AccessToken == "" {
		return t.base.RoundTrip(req)
	}

	clone := req.Clone(req.Context())
	tok.SetAuthHeader(clone)
	return t.base.RoundTrip(clone)
}

// doJSON performs one request and decodes the JSON response into out.
// Non-2xx responses become a *StatusError carrying any server message.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")

	log.Trace("backend request", "method", method, "path", path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{
			StatusCode: resp.StatusCode,
			Message:    serverMessage(resp.Body),
		}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w: %v", method, path, grid.ErrBadShape, err)
	}
	return nil
}

// serverMessage extracts the error message from a failure body, which the
// backend sends either as plain text or as {"message": ...}.
func serverMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}

	var wrapped struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &wrapped) == nil && wrapped.Message != "" {
		return wrapped.Message
	}
	return string(data)
}
