package grid

import (
	"encoding/json"
	"strconv"
)

// ValueKind tags the decoded type of a cell value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindText
	KindNumber
	KindBool
	KindRaw // nested object or array, kept as its JSON text
)

// Value is a single cell of a row record. Collections declare their field
// sets server-side, so rows are open mappings rather than fixed structs;
// each value carries a tag for what the server actually sent.
type Value struct {
	Kind   ValueKind
	Text   string
	Number float64
	Bool   bool
}

// Row is one record in a row window, keyed by the collection's fields.
type Row map[string]Value

// UnmarshalJSON decodes a JSON scalar into a tagged value. Nested objects
// and arrays are kept as their raw JSON text under KindRaw so they
// round-trip losslessly.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Value{Kind: KindNull}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value{Kind: KindText, Text: s}
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Value{Kind: KindBool, Bool: b}
	case '{', '[':
		*v = Value{Kind: KindRaw, Text: string(data)}
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*v = Value{Kind: KindNumber, Number: n}
	}
	return nil
}

// MarshalJSON round-trips the tagged value back to its JSON form.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindText:
		return json.Marshal(v.Text)
	case KindNumber:
		return json.Marshal(v.Number)
	case KindBool:
		return json.Marshal(v.Bool)
	case KindRaw:
		return []byte(v.Text), nil
	default:
		return []byte("null"), nil
	}
}

// IsNull reports whether the value is absent.
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// String renders the value for display without any type-specific formatting.
func (v Value) String() string {
	switch v.Kind {
	case KindText, KindRaw:
		return v.Text
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return ""
	}
}

// IDField is the identifier field present on every record.
const IDField = "_id"

// ID returns the record's identifier, or "" if the row has none.
func (r Row) ID() string {
	return r[IDField].Text
}
