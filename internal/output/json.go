package output

import (
	"encoding/json"
	"io"

	"github.com/hubdeck/hubdeck/internal/grid"
)

// JSONFormatter formats row windows as JSON
type JSONFormatter struct {
	Pretty bool
}

// FormatWindow outputs a row window as JSON, preserving the wire shape.
func (f *JSONFormatter) FormatWindow(_ *grid.Schema, window *grid.RowWindow, w io.Writer) error {
	encoder := json.NewEncoder(w)
	if f.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(window)
}
