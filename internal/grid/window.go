package grid

import (
	"errors"
	"fmt"
)

// ErrBadShape marks a response that parsed but violates the row-window
// contract. Shape errors are surfaced immediately and never retried.
var ErrBadShape = errors.New("malformed row window")

// RowWindow is the backend's answer to one window request.
//
// LastRowIndex is the absolute total row count for the scoped collection
// (not an end-of-data sentinel); the grid stops requesting windows at or
// past it.
type RowWindow struct {
	Rows         []Row `json:"rows"`
	LastRowIndex int   `json:"lastRowIndex"`
}

// Validate checks the structural invariants of a window against the request
// that produced it: rows must be present, the total must be non-negative,
// and the server cannot return more rows than the window asked for.
func (w *RowWindow) Validate(req Request) error {
	if w.Rows == nil {
		return fmt.Errorf("%w: missing rows", ErrBadShape)
	}
	if w.LastRowIndex < 0 {
		return fmt.Errorf("%w: negative lastRowIndex %d", ErrBadShape, w.LastRowIndex)
	}
	if n := req.EndRow - req.StartRow; len(w.Rows) > n {
		return fmt.Errorf("%w: %d rows for a %d-row window", ErrBadShape, len(w.Rows), n)
	}
	return nil
}
