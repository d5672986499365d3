package grid

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// countingFetcher fails a fixed number of times before succeeding, and
// records every request it saw.
type countingFetcher struct {
	failures int
	calls    int
	requests []Request
	times    []time.Time
	window   *RowWindow
	err      error
}

func (f *countingFetcher) FetchRows(ctx context.Context, req Request) (*RowWindow, error) {
	f.calls++
	f.requests = append(f.requests, req)
	f.times = append(f.times, time.Now())
	if f.calls <= f.failures {
		return nil, fmt.Errorf("connection refused (call %d)", f.calls)
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.window != nil {
		return f.window, nil
	}
	return &RowWindow{Rows: []Row{}, LastRowIndex: 0}, nil
}

type staticGate bool

func (g staticGate) Connected() bool { return bool(g) }

func testQuery() Query { return Query{StartRow: 0, EndRow: 25} }

func TestGetRowsSucceedsFirstAttempt(t *testing.T) {
	fetcher := &countingFetcher{
		window: &RowWindow{Rows: []Row{{IDField: {Kind: KindText, Text: "r1"}}}, LastRowIndex: 1},
	}
	src := NewRemoteSource(fetcher, "repository", WithRetryDelay(time.Millisecond))

	window, err := src.GetRows(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetcher.calls != 1 {
		t.Errorf("calls = %d, want 1", fetcher.calls)
	}
	if window.LastRowIndex != 1 || len(window.Rows) != 1 {
		t.Errorf("window = %+v", window)
	}
}

func TestGetRowsRetriesTransportFailures(t *testing.T) {
	fetcher := &countingFetcher{failures: 2}
	src := NewRemoteSource(fetcher, "repository", WithRetryDelay(time.Millisecond))

	if _, err := src.GetRows(context.Background(), testQuery()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetcher.calls != 3 {
		t.Errorf("calls = %d, want 3", fetcher.calls)
	}
}

func TestGetRowsBackoffGrowsBetweenAttempts(t *testing.T) {
	base := 50 * time.Millisecond
	fetcher := &countingFetcher{failures: 2}
	src := NewRemoteSource(fetcher, "repository", WithRetryDelay(base))

	if _, err := src.GetRows(context.Background(), testQuery()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fetcher.times) != 3 {
		t.Fatalf("attempts = %d, want 3", len(fetcher.times))
	}
	first := fetcher.times[1].Sub(fetcher.times[0])
	second := fetcher.times[2].Sub(fetcher.times[1])
	if first < base {
		t.Errorf("first gap = %v, want at least %v", first, base)
	}
	if second <= first {
		t.Errorf("second gap = %v, want longer than first gap %v", second, first)
	}
}

func TestGetRowsStopsAtAttemptBound(t *testing.T) {
	fetcher := &countingFetcher{failures: 100}
	src := NewRemoteSource(fetcher, "repository", WithRetryDelay(time.Millisecond))

	_, err := src.GetRows(context.Background(), testQuery())
	if err == nil {
		t.Fatal("expected an error after exhausting retries")
	}
	if fetcher.calls != DefaultMaxAttempts {
		t.Errorf("calls = %d, want exactly %d", fetcher.calls, DefaultMaxAttempts)
	}
}

func TestGetRowsShapeErrorNotRetried(t *testing.T) {
	fetcher := &countingFetcher{err: fmt.Errorf("%w: rows not an array", ErrBadShape)}
	src := NewRemoteSource(fetcher, "repository", WithRetryDelay(time.Millisecond))

	_, err := src.GetRows(context.Background(), testQuery())
	if !errors.Is(err, ErrBadShape) {
		t.Fatalf("error = %v, want ErrBadShape", err)
	}
	if fetcher.calls != 1 {
		t.Errorf("calls = %d, want 1 (shape errors must not retry)", fetcher.calls)
	}
}

func TestGetRowsValidationFailureNotRetried(t *testing.T) {
	// Parses fine but violates the window contract: 30 rows for a
	// 25-row window.
	rows := make([]Row, 30)
	for i := range rows {
		rows[i] = Row{}
	}
	fetcher := &countingFetcher{window: &RowWindow{Rows: rows, LastRowIndex: 30}}
	src := NewRemoteSource(fetcher, "repository", WithRetryDelay(time.Millisecond))

	_, err := src.GetRows(context.Background(), testQuery())
	if !errors.Is(err, ErrBadShape) {
		t.Fatalf("error = %v, want ErrBadShape", err)
	}
	if fetcher.calls != 1 {
		t.Errorf("calls = %d, want 1", fetcher.calls)
	}
}

func TestGetRowsGateShortCircuits(t *testing.T) {
	fetcher := &countingFetcher{}
	src := NewRemoteSource(fetcher, "repository", WithGate(staticGate(false)))

	_, err := src.GetRows(context.Background(), testQuery())
	if !errors.Is(err, ErrNotConnected) {
		t.Fatalf("error = %v, want ErrNotConnected", err)
	}
	if fetcher.calls != 0 {
		t.Errorf("calls = %d, want 0 (gate must stop the request before transport)", fetcher.calls)
	}
}

func TestGetRowsCancelDuringBackoff(t *testing.T) {
	fetcher := &countingFetcher{failures: 100}
	src := NewRemoteSource(fetcher, "repository", WithRetryDelay(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := src.GetRows(ctx, testQuery())
		done <- err
	}()

	// Let the first attempt fail, then cancel while the retry timer is
	// pending.
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("GetRows did not return after cancellation")
	}
	if fetcher.calls != 1 {
		t.Errorf("calls = %d, want 1 (no attempt after cancel)", fetcher.calls)
	}
}

func TestGetRowsInvalidWindowNeverDispatch(t *testing.T) {
	fetcher := &countingFetcher{}
	src := NewRemoteSource(fetcher, "repository")

	if _, err := src.GetRows(context.Background(), Query{StartRow: 10, EndRow: 5}); err == nil {
		t.Fatal("expected an error for an inverted window")
	}
	if fetcher.calls != 0 {
		t.Errorf("calls = %d, want 0", fetcher.calls)
	}
}

func TestGetRowsScopePinnedOnEveryAttempt(t *testing.T) {
	fetcher := &countingFetcher{failures: 2}
	src := NewRemoteSource(fetcher, "repository",
		WithScope(Scope{ParentID: "repo-7", Type: DetailCommit}),
		WithRetryDelay(time.Millisecond))

	if _, err := src.GetRows(context.Background(), testQuery()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fetcher.requests) != 3 {
		t.Fatalf("requests = %d, want 3", len(fetcher.requests))
	}
	for i, req := range fetcher.requests {
		if req.Collection != "Commit" {
			t.Errorf("attempt %d collection = %q", i+1, req.Collection)
		}
		if req.Filter[ParentField].Filter != "repo-7" {
			t.Errorf("attempt %d lost scope: %+v", i+1, req.Filter)
		}
	}
}
