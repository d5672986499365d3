package tui

import (
	"context"

	"github.com/hubdeck/hubdeck/internal/grid"
)

// gridView is the UI-side state of one grid pane: its row source, schema,
// the currently displayed window, and the query state (page, sort,
// search) the next window will be built from.
type gridView struct {
	source    *grid.RemoteSource
	schema    *grid.Schema
	window    *grid.RowWindow
	page      int
	cursor    int
	colCursor int
	sort      []grid.SortItem
	search    string
	loading   bool
	err       error

	// gen is the scope generation of the view's latest window request,
	// issued by the model. A response tagged with any other generation
	// is stale and must not touch this view.
	gen    int
	cancel context.CancelFunc
}

func newGridView(source *grid.RemoteSource, fields []string) *gridView {
	return &gridView{
		source: source,
		schema: grid.InitialSchema(fields),
	}
}

// invalidate abandons the outstanding window request, if any.
func (g *gridView) invalidate() {
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
	g.gen++
}

// query builds the UI ask for the current page.
func (g *gridView) query(pageSize int) grid.Query {
	return grid.Query{
		StartRow: g.page * pageSize,
		EndRow:   (g.page + 1) * pageSize,
		Sort:     append([]grid.SortItem(nil), g.sort...),
		Filter:   nil,
		Search:   g.search,
	}
}

// total returns the known absolute row count, or -1 before the first
// window arrives.
func (g *gridView) total() int {
	if g.window == nil {
		return -1
	}
	return g.window.LastRowIndex
}

// hasNextPage reports whether rows exist past the current page. No window
// request is ever issued at or past the known total.
func (g *gridView) hasNextPage(pageSize int) bool {
	t := g.total()
	return t < 0 || (g.page+1)*pageSize < t
}

// rows returns the displayed window's rows.
func (g *gridView) rows() []grid.Row {
	if g.window == nil {
		return nil
	}
	return g.window.Rows
}

// clampCursor keeps the row cursor inside the displayed window.
func (g *gridView) clampCursor() {
	if n := len(g.rows()); g.cursor >= n {
		g.cursor = n - 1
	}
	if g.cursor < 0 {
		g.cursor = 0
	}
}

// cycleSort advances the sort state of the column under the column
// cursor: none → asc → desc → none. Entry order is whatever order the
// user toggled columns in; the mapper passes it through verbatim.
func (g *gridView) cycleSort() {
	if g.colCursor >= len(g.schema.Columns) {
		return
	}
	field := g.schema.Columns[g.colCursor].Field

	for i, item := range g.sort {
		if item.ColID != field {
			continue
		}
		if item.Sort == "asc" {
			g.sort[i].Sort = "desc"
		} else {
			g.sort = append(g.sort[:i], g.sort[i+1:]...)
		}
		return
	}
	g.sort = append(g.sort, grid.SortItem{ColID: field, Sort: "asc"})
}

// sortMarker returns the header marker for a field, or "".
func (g *gridView) sortMarker(field string) string {
	for _, item := range g.sort {
		if item.ColID == field {
			if item.Sort == "asc" {
				return "▲"
			}
			return "▼"
		}
	}
	return ""
}
