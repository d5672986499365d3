// Package output renders row windows for non-interactive use.
package output

import (
	"io"

	"github.com/hubdeck/hubdeck/internal/grid"
)

// Format represents the output format
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// Formatter defines the interface for output formatters
type Formatter interface {
	FormatWindow(schema *grid.Schema, window *grid.RowWindow, w io.Writer) error
}

// NewFormatter creates a formatter for the specified format
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	default:
		return &TableFormatter{}
	}
}

// Cell renders one row value according to its column's presentation type.
func Cell(row grid.Row, col grid.Column) string {
	v, ok := row[col.Field]
	if !ok || v.IsNull() {
		return ""
	}
	if col.Type == grid.TypeDate && v.Kind == grid.KindText {
		return dateCell(v.Text)
	}
	return v.String()
}
