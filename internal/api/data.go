package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/hubdeck/hubdeck/internal/grid"
	"github.com/hubdeck/hubdeck/internal/log"
)

// Collections fetches the server-declared collections. The result is
// cached for the life of the process after the first successful fetch;
// collections are immutable for the session. Transport failures retry
// under the same linear backoff policy as row windows.
func (c *Client) Collections(ctx context.Context) ([]Collection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fetched {
		return c.collections, nil
	}

	var resp collectionsResponse
	var lastErr error
	for attempt := 1; attempt <= grid.DefaultMaxAttempts; attempt++ {
		if attempt > 1 {
			timer := time.NewTimer(time.Duration(attempt-1) * grid.DefaultRetryDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}

		err := c.doJSON(ctx, http.MethodGet, "/github/collections", nil, &resp)
		if err == nil {
			if resp.Collections == nil {
				return nil, fmt.Errorf("%w: missing collections", grid.ErrBadShape)
			}
			c.collections = resp.Collections
			c.fetched = true
			log.Info("collections fetched", "count", len(resp.Collections))
			return c.collections, nil
		}
		if errors.Is(err, grid.ErrBadShape) || ctx.Err() != nil {
			return nil, err
		}
		lastErr = err
		log.Debug("collections fetch failed", "attempt", attempt, "error", err)
	}
	return nil, fmt.Errorf("fetch collections: %w", lastErr)
}

// Sync asks the backend to refresh its GitHub data. Fire-and-forget: the
// backend syncs in the background.
func (c *Client) Sync(ctx context.Context) error {
	u := c.baseURL + "/github/sync"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return fmt.Errorf("build sync request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("trigger sync: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Message: serverMessage(resp.Body)}
	}
	return nil
}

// rowWindowWire is the row-window response before structural validation.
// LastRowIndex is a pointer so a missing total is distinguishable from 0.
type rowWindowWire struct {
	Rows         []grid.Row `json:"rows"`
	LastRowIndex *int       `json:"lastRowIndex"`
}

// CollectionSource returns a fetcher serving windows from the per-
// collection data endpoint. Detail requests reuse the same endpoint with
// the detail type as the collection.
func (c *Client) CollectionSource() grid.Fetcher {
	return grid.FetcherFunc(func(ctx context.Context, req grid.Request) (*grid.RowWindow, error) {
		path := "/github/collections/" + url.PathEscape(req.Collection)
		return c.fetchWindow(ctx, path, req)
	})
}

// RepoSource returns a fetcher serving windows from the repository
// endpoint, which has a fixed record type.
func (c *Client) RepoSource() grid.Fetcher {
	return grid.FetcherFunc(func(ctx context.Context, req grid.Request) (*grid.RowWindow, error) {
		return c.fetchWindow(ctx, "/github/repos", req)
	})
}

func (c *Client) fetchWindow(ctx context.Context, path string, req grid.Request) (*grid.RowWindow, error) {
	q, err := req.Values()
	if err != nil {
		return nil, err
	}

	var wire rowWindowWire
	if err := c.doJSON(ctx, http.MethodGet, path, q, &wire); err != nil {
		return nil, err
	}
	if wire.LastRowIndex == nil {
		return nil, fmt.Errorf("%w: missing lastRowIndex", grid.ErrBadShape)
	}
	return &grid.RowWindow{Rows: wire.Rows, LastRowIndex: *wire.LastRowIndex}, nil
}
