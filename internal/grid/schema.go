package grid

import (
	"strings"
	"unicode"

	"github.com/hubdeck/hubdeck/internal/format"
)

// ColumnType is the presentation type of a column.
type ColumnType string

const (
	TypeText   ColumnType = "text"
	TypeNumber ColumnType = "number"
	TypeDate   ColumnType = "date"
)

// Column describes one column of a collection's grid.
type Column struct {
	Field string
	Label string
	Type  ColumnType
}

// FilterKind returns the filter predicate kind matching the column's
// presentation type.
func (c Column) FilterKind() string {
	return string(c.Type)
}

// Schema is the ordered column set for one collection selection. It starts
// untyped (everything text) and is refined at most once, from the first
// non-empty row window that arrives.
type Schema struct {
	Columns []Column
	typed   bool
}

// Typed reports whether type inference has already run for this schema.
func (s *Schema) Typed() bool {
	return s.typed
}

// InitialSchema builds the untyped schema for a collection's declared
// field list: every column text, labels derived from the field names.
func InitialSchema(fields []string) *Schema {
	cols := make([]Column, 0, len(fields))
	for _, f := range fields {
		label := DisplayLabel(f)
		if f == IDField {
			label = "ID"
		}
		cols = append(cols, Column{Field: f, Label: label, Type: TypeText})
	}
	return &Schema{Columns: cols}
}

// InferOptions carries the static per-field presentation hints. Numeric
// reclassification is driven by the allow-list, never by value sniffing.
type InferOptions struct {
	NumericFields []string
	DateFields    []string
}

// DefaultInferOptions returns the built-in field hints.
func DefaultInferOptions() InferOptions {
	return InferOptions{
		NumericFields: []string{"forks", "stars", "number", "commitCount", "pullRequestCount", "issueCount"},
		DateFields:    []string{"createdAt", "updatedAt", "date"},
	}
}

// maxSamples bounds how many non-null values per field inference looks at.
const maxSamples = 5

// Refine classifies column types from the first received row window. It is
// a no-op after the first run or on an empty sample; re-selecting the same
// collection resets the schema via InitialSchema instead.
//
// A field becomes a date only when every sampled value is a string
// containing '-' or '/' that parses as a calendar date; one non-conforming
// sample keeps the field text. That is a heuristic and intentional.
func (s *Schema) Refine(rows []Row, opts InferOptions) {
	if s.typed || len(rows) == 0 {
		return
	}

	for i, col := range s.Columns {
		switch {
		case contains(opts.NumericFields, col.Field):
			s.Columns[i].Type = TypeNumber
		case contains(opts.DateFields, col.Field):
			s.Columns[i].Type = TypeDate
		case inferDate(col.Field, rows):
			s.Columns[i].Type = TypeDate
		}
	}
	s.typed = true
}

// inferDate samples up to maxSamples non-null values of the field and
// reports whether all of them look like dates.
func inferDate(field string, rows []Row) bool {
	sampled := 0
	for _, row := range rows {
		v, ok := row[field]
		if !ok || v.IsNull() {
			continue
		}
		if !isDateValue(v) {
			return false
		}
		sampled++
		if sampled == maxSamples {
			break
		}
	}
	return sampled > 0
}

func isDateValue(v Value) bool {
	if v.Kind != KindText {
		return false
	}
	if !strings.ContainsAny(v.Text, "-/") {
		return false
	}
	_, ok := format.ParseDate(v.Text)
	return ok
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// MasterFields prepends the master repository grid's base fields (the
// identifier and the per-type detail counts) to a declared field list,
// dropping duplicates.
func MasterFields(declared []string) []string {
	base := []string{IDField, "commitCount", "pullRequestCount", "issueCount"}
	seen := make(map[string]bool, len(base))
	for _, f := range base {
		seen[f] = true
	}
	fields := append([]string(nil), base...)
	for _, f := range declared {
		if !seen[f] {
			fields = append(fields, f)
			seen[f] = true
		}
	}
	return fields
}

// DisplayLabel derives a column header from a field name: a space before
// each internal uppercase letter, underscores to spaces, first character
// capitalized, surrounding whitespace trimmed. "pullRequestCount" becomes
// "Pull Request Count".
func DisplayLabel(field string) string {
	var b strings.Builder
	b.Grow(len(field) + 4)
	for _, r := range field {
		switch {
		case unicode.IsUpper(r):
			b.WriteByte(' ')
			b.WriteRune(r)
		case r == '_':
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}

	label := b.String()
	if label != "" {
		runes := []rune(label)
		runes[0] = unicode.ToUpper(runes[0])
		label = string(runes)
	}
	return strings.TrimSpace(label)
}
