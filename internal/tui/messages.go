package tui

import (
	"github.com/hubdeck/hubdeck/internal/api"
	"github.com/hubdeck/hubdeck/internal/grid"
)

// pane identifies which grid a message belongs to.
type pane int

const (
	paneMaster pane = iota
	paneDetail
)

// collectionsMsg delivers the server-declared collections.
type collectionsMsg struct {
	collections []api.Collection
	err         error
}

// windowMsg delivers one row window, tagged with the scope generation it
// was requested under. A message whose generation no longer matches its
// pane is stale and must be discarded, not applied.
type windowMsg struct {
	pane   pane
	gen    int
	window *grid.RowWindow
	err    error
}

// syncMsg reports the outcome of a backend sync trigger.
type syncMsg struct {
	err error
}
