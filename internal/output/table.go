package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/hubdeck/hubdeck/internal/format"
	"github.com/hubdeck/hubdeck/internal/grid"
)

// TableFormatter formats row windows as a terminal table
type TableFormatter struct{}

// Column width bounds. Content decides the width between them.
const (
	minColWidth = 4
	maxColWidth = 40
)

var (
	headerColor = color.New(color.Bold, color.FgCyan)
	footerColor = color.New(color.Faint)
)

// FormatWindow renders a row window as a table: header labels from the
// schema, cells formatted per column type, a footer with the window's
// share of the total.
func (f *TableFormatter) FormatWindow(schema *grid.Schema, window *grid.RowWindow, w io.Writer) error {
	if len(schema.Columns) == 0 {
		fmt.Fprintln(w, "No columns to display.")
		return nil
	}

	cells := make([][]string, len(window.Rows))
	for i, row := range window.Rows {
		cells[i] = make([]string, len(schema.Columns))
		for j, col := range schema.Columns {
			cells[i][j] = format.Truncate(Cell(row, col), maxColWidth)
		}
	}

	widths := columnWidths(schema.Columns, cells)

	// Header
	parts := make([]string, len(schema.Columns))
	for j, col := range schema.Columns {
		parts[j] = headerColor.Sprint(format.PadRight(format.Truncate(col.Label, widths[j]), widths[j]))
	}
	fmt.Fprintln(w, strings.Join(parts, "  "))

	total := 0
	for _, width := range widths {
		total += width + 2
	}
	fmt.Fprintln(w, strings.Repeat("-", total-2))

	// Rows
	for _, rowCells := range cells {
		for j, col := range schema.Columns {
			cell := rowCells[j]
			if col.Type == grid.TypeNumber {
				parts[j] = format.PadLeft(cell, widths[j])
			} else {
				parts[j] = format.PadRight(cell, widths[j])
			}
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	if len(window.Rows) == 0 {
		fmt.Fprintln(w, "No rows.")
	}
	fmt.Fprintln(w, footerColor.Sprintf("%d of %d rows", len(window.Rows), window.LastRowIndex))
	return nil
}

// columnWidths sizes each column to its widest cell or label, clamped to
// the width bounds.
func columnWidths(cols []grid.Column, cells [][]string) []int {
	widths := make([]int, len(cols))
	for j, col := range cols {
		widths[j] = format.DisplayWidth(col.Label)
	}
	for _, row := range cells {
		for j, cell := range row {
			if w := format.DisplayWidth(cell); w > widths[j] {
				widths[j] = w
			}
		}
	}
	for j := range widths {
		if widths[j] < minColWidth {
			widths[j] = minColWidth
		}
		if widths[j] > maxColWidth {
			widths[j] = maxColWidth
		}
	}
	return widths
}

// dateCell re-renders a raw date value for display.
func dateCell(s string) string {
	return format.DateString(s)
}
