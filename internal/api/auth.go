package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

// ErrMissingToken is returned when the callback exchange succeeds at the
// HTTP level but the payload carries no token. The session must stay
// unauthenticated in that case.
var ErrMissingToken = errors.New("authentication token missing from callback response")

// AuthURL fetches the GitHub authorization URL to send the user to.
func (c *Client) AuthURL(ctx context.Context) (string, error) {
	var resp authURLResponse
	if err := c.doJSON(ctx, http.MethodGet, "/auth/github/url", nil, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

// ExchangeCallback trades the OAuth callback code for a session payload.
func (c *Client) ExchangeCallback(ctx context.Context, code, state string) (*SessionPayload, error) {
	q := url.Values{}
	q.Set("code", code)
	q.Set("state", state)

	var payload SessionPayload
	if err := c.doJSON(ctx, http.MethodGet, "/auth/github/callback", q, &payload); err != nil {
		return nil, err
	}
	if payload.Token == "" {
		return nil, ErrMissingToken
	}
	return &payload, nil
}

// Verify checks the held credential against the backend. A non-2xx answer
// means the session must be treated as unauthenticated.
func (c *Client) Verify(ctx context.Context) (*SessionPayload, error) {
	var payload SessionPayload
	if err := c.doJSON(ctx, http.MethodGet, "/auth/verify", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Disconnect removes the GitHub integration server-side. Callers clear the
// local credential regardless of the outcome.
func (c *Client) Disconnect(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodDelete, "/auth/github/integration", nil, nil)
}
