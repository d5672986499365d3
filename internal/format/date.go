// Package format provides shared text and date formatting utilities for
// terminal output.
package format

import "time"

// dateLayouts are the shapes the backend is known to emit for date fields.
// Calendar-date inference accepts a value only if one of these parses it.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
}

// ParseDate parses a date string in any of the recognized layouts.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Date renders a timestamp the way the dashboard shows dates.
func Date(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// DateString parses and re-renders a raw date value for display, falling
// back to the raw string when it does not parse.
func DateString(s string) string {
	if s == "" {
		return ""
	}
	t, ok := ParseDate(s)
	if !ok {
		return s
	}
	return Date(t)
}
