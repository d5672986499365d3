package grid

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hubdeck/hubdeck/internal/log"
)

// Retry policy for transport failures. Shape errors never retry.
const (
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = time.Second
)

// ErrNotConnected is returned when a window request is issued without an
// authenticated session. The network collaborator is not called.
var ErrNotConnected = errors.New("not connected")

// Fetcher executes one transport round trip for a window request.
type Fetcher interface {
	FetchRows(ctx context.Context, req Request) (*RowWindow, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, req Request) (*RowWindow, error)

// FetchRows calls f.
func (f FetcherFunc) FetchRows(ctx context.Context, req Request) (*RowWindow, error) {
	return f(ctx, req)
}

// Gate exposes the read side of the session state. Sources check it before
// every window request so loss of authentication mid-session stops
// in-flight grids from reaching the network.
type Gate interface {
	Connected() bool
}

// RemoteSource answers window queries for one collection against the
// backend. It owns the retry policy and holds no row cache: every window
// request is stateless and re-issued on demand. A source may serve
// concurrent GetRows calls for disjoint windows.
type RemoteSource struct {
	fetcher     Fetcher
	collection  string
	scope       *Scope
	gate        Gate
	maxAttempts int
	retryDelay  time.Duration
}

// SourceOption configures a RemoteSource.
type SourceOption func(*RemoteSource)

// WithScope pins every request the source issues to a parent partition.
func WithScope(s Scope) SourceOption {
	return func(rs *RemoteSource) { rs.scope = &s }
}

// WithGate makes the source observe session state before each request.
func WithGate(g Gate) SourceOption {
	return func(rs *RemoteSource) { rs.gate = g }
}

// WithMaxAttempts overrides the transport attempt bound.
func WithMaxAttempts(n int) SourceOption {
	return func(rs *RemoteSource) { rs.maxAttempts = n }
}

// WithRetryDelay overrides the base backoff delay.
func WithRetryDelay(d time.Duration) SourceOption {
	return func(rs *RemoteSource) { rs.retryDelay = d }
}

// NewRemoteSource creates a row source for the given collection.
func NewRemoteSource(fetcher Fetcher, collection string, opts ...SourceOption) *RemoteSource {
	rs := &RemoteSource{
		fetcher:     fetcher,
		collection:  collection,
		maxAttempts: DefaultMaxAttempts,
		retryDelay:  DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(rs)
	}
	return rs
}

// Scope returns the parent scope the source is bound to, or nil.
func (rs *RemoteSource) Scope() *Scope {
	return rs.scope
}

// Collection returns the collection the source serves.
func (rs *RemoteSource) Collection() string {
	return rs.collection
}

// GetRows materializes one window of rows. Transport failures retry with
// linearly increasing delay (attempt * base) up to the attempt bound;
// a response that parses but fails structural validation is surfaced
// immediately. Cancelling the context abandons the request, including any
// pending retry timer.
func (rs *RemoteSource) GetRows(ctx context.Context, q Query) (*RowWindow, error) {
	if rs.gate != nil && !rs.gate.Connected() {
		return nil, ErrNotConnected
	}

	req, err := BuildRequest(rs.collection, q, rs.scope)
	if err != nil {
		return nil, err
	}

	reqID := uuid.NewString()[:8]
	var lastErr error
	for attempt := 1; attempt <= rs.maxAttempts; attempt++ {
		if attempt > 1 {
			if err := rs.waitRetry(ctx, attempt-1); err != nil {
				return nil, err
			}
		}

		window, err := rs.fetcher.FetchRows(ctx, req)
		if err == nil {
			if verr := window.Validate(req); verr != nil {
				log.Error("row window failed validation",
					"req", reqID, "collection", req.Collection, "error", verr)
				return nil, verr
			}
			log.Debug("row window fetched",
				"req", reqID, "collection", req.Collection,
				"start", req.StartRow, "end", req.EndRow,
				"rows", len(window.Rows), "total", window.LastRowIndex)
			return window, nil
		}

		if errors.Is(err, ErrBadShape) {
			log.Error("row window undecodable",
				"req", reqID, "collection", req.Collection, "error", err)
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		lastErr = err
		log.Debug("row window fetch failed",
			"req", reqID, "collection", req.Collection,
			"attempt", attempt, "error", err)
	}

	log.Error("row window fetch exhausted retries",
		"req", reqID, "collection", req.Collection,
		"attempts", rs.maxAttempts, "error", lastErr)
	return nil, fmt.Errorf("fetch %s rows [%d,%d): %w",
		req.Collection, req.StartRow, req.EndRow, lastErr)
}

// waitRetry sleeps for the backoff delay before the next attempt. The
// timer is dropped the moment the context is cancelled so a retry never
// fires for an abandoned request.
func (rs *RemoteSource) waitRetry(ctx context.Context, prior int) error {
	timer := time.NewTimer(time.Duration(prior) * rs.retryDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
