package tui

import (
	"fmt"
	"strings"

	"github.com/hubdeck/hubdeck/internal/format"
	"github.com/hubdeck/hubdeck/internal/grid"
	"github.com/hubdeck/hubdeck/internal/output"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n")

	if m.master == nil {
		if m.status != "" {
			b.WriteString(m.status + "\n")
		} else {
			b.WriteString(m.spin.View() + " loading collections…\n")
		}
		return b.String()
	}

	detailHeight := 0
	if m.detail != nil {
		detailHeight = m.detailRowBudget() + 5
	}
	masterBudget := m.height - detailHeight - 5
	if masterBudget < 3 {
		masterBudget = 3
	}

	b.WriteString(m.viewGrid(m.master, paneMaster, masterBudget))

	if m.detail != nil {
		b.WriteString(m.viewDetail())
	}

	b.WriteString(m.viewFooter())
	return b.String()
}

func (m Model) viewHeader() string {
	coll := m.currentCollection()
	title := coll.Title
	if title == "" {
		title = coll.CollectionName
	}
	head := titleStyle.Render("hubdeck") + dimStyle.Render(" · Github · ") + headerStyle.Render(title)

	if cur := m.deps.Session.Current(); cur.Profile != nil && cur.Profile.Username != "" {
		head += dimStyle.Render("  @" + cur.Profile.Username)
	}

	if m.searching {
		head += "\n/" + m.searchInput.View()
	} else if g := m.focusedGrid(); g != nil && g.search != "" {
		head += dimStyle.Render("  search:") + g.search
	}
	return head
}

// viewGrid renders one pane's table, capped at rowBudget data rows.
func (m Model) viewGrid(g *gridView, p pane, rowBudget int) string {
	rows := g.rows()
	widths := m.fitWidths(g)

	var b strings.Builder

	// Column headers with sort markers; the column cursor is underlined
	// on the focused pane.
	parts := make([]string, len(g.schema.Columns))
	for j, col := range g.schema.Columns {
		label := col.Label
		if marker := g.sortMarker(col.Field); marker != "" {
			label += sortMarkerStyle.Render(marker)
		}
		cell := format.PadRight(format.Truncate(label, widths[j]), widths[j])
		if m.focus == p && j == g.colCursor {
			cell = colCursorStyle.Render(cell)
		} else {
			cell = headerStyle.Render(cell)
		}
		parts[j] = cell
	}
	b.WriteString(strings.Join(parts, " ") + "\n")

	for i, row := range rows {
		if i >= rowBudget {
			b.WriteString(dimStyle.Render(fmt.Sprintf("… %d more on this page", len(rows)-i)) + "\n")
			break
		}
		for j, col := range g.schema.Columns {
			cell := format.Truncate(output.Cell(row, col), widths[j])
			if col.Type == grid.TypeNumber {
				cell = format.PadLeft(cell, widths[j])
			} else {
				cell = format.PadRight(cell, widths[j])
			}
			parts[j] = cell
		}
		line := strings.Join(parts, " ")
		switch {
		case m.focus == p && i == g.cursor:
			line = selectedRowStyle.Render(line)
		case p == paneMaster && m.detail != nil && row.ID() == m.detail.parentID:
			line = expandedRowStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	switch {
	case g.loading:
		b.WriteString(m.spin.View() + dimStyle.Render(" loading…") + "\n")
	case g.err != nil:
		b.WriteString(errorStyle.Render("✗ "+friendlyError(g.err)) + "\n")
	case len(rows) == 0:
		b.WriteString(dimStyle.Render("no rows") + "\n")
	}

	return b.String()
}

func (m Model) detailRowBudget() int {
	budget := m.height / 3
	if budget < 4 {
		budget = 4
	}
	return budget
}

func (m Model) viewDetail() string {
	d := m.detail
	title := fmt.Sprintf("%ss · %s · %s", d.dtype.Label(), d.parentID, m.pageInfo(&d.gridView))
	body := headerStyle.Render(title) + "\n" + m.viewGrid(&d.gridView, paneDetail, m.detailRowBudget())
	return detailBorderStyle.Width(m.width - 4).Render(body) + "\n"
}

// pageInfo formats "page 2/5 · 100 of 432 rows" for a pane.
func (m Model) pageInfo(g *gridView) string {
	t := g.total()
	if t < 0 {
		return fmt.Sprintf("page %d", g.page+1)
	}
	pages := (t + m.pageSize - 1) / m.pageSize
	if pages == 0 {
		pages = 1
	}
	return fmt.Sprintf("page %d/%d · %d of %d rows", g.page+1, pages, len(g.rows()), t)
}

func (m Model) viewFooter() string {
	line := statusStyle.Render(m.pageInfo(m.master))
	if m.status != "" {
		line += "  " + m.status
	}
	keys := "←/→ page · ↑/↓ row · </> col · s sort · / search · c collection · 1/2/3 expand · tab focus · S sync · q quit"
	return line + "\n" + dimStyle.Render(keys)
}

// fitWidths sizes the pane's columns to content, then shrinks the widest
// columns until the table fits the terminal.
func (m Model) fitWidths(g *gridView) []int {
	cols := g.schema.Columns
	widths := make([]int, len(cols))
	for j, col := range cols {
		widths[j] = format.DisplayWidth(col.Label) + 1 // room for sort marker
	}
	for _, row := range g.rows() {
		for j, col := range cols {
			if w := format.DisplayWidth(output.Cell(row, col)); w > widths[j] {
				widths[j] = w
			}
		}
	}

	for j := range widths {
		if widths[j] < 4 {
			widths[j] = 4
		}
		if widths[j] > 32 {
			widths[j] = 32
		}
	}

	// Shrink the widest column until everything fits.
	avail := m.width - len(cols) + 1
	for {
		total := 0
		widest := 0
		for j, w := range widths {
			total += w
			if w > widths[widest] {
				widest = j
			}
		}
		if total <= avail || widths[widest] <= 4 {
			return widths
		}
		widths[widest]--
	}
}
