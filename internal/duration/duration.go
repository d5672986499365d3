// Package duration provides parsing for human-readable time spans.
package duration

import (
	"fmt"
	"time"
)

// Parse parses human-readable spans like "1w", "30d", "6mo" into a
// duration. Months and years are calendar approximations (30 and 365
// days).
func Parse(s string) (time.Duration, error) {
	var n int
	var unit string
	if _, err := fmt.Sscanf(s, "%d%s", &n, &unit); err != nil {
		return 0, fmt.Errorf("invalid span format: %s (use e.g., 1w, 30d, 6mo)", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative span: %s", s)
	}

	var d time.Duration
	switch unit {
	case "m", "min", "mins":
		d = time.Duration(n) * time.Minute
	case "h", "hr", "hrs", "hour", "hours":
		d = time.Duration(n) * time.Hour
	case "d", "day", "days":
		d = time.Duration(n) * 24 * time.Hour
	case "w", "wk", "wks", "week", "weeks":
		d = time.Duration(n) * 7 * 24 * time.Hour
	case "mo", "month", "months":
		d = time.Duration(n) * 30 * 24 * time.Hour
	case "y", "yr", "yrs", "year", "years":
		d = time.Duration(n) * 365 * 24 * time.Hour
	default:
		return 0, fmt.Errorf("unknown span unit: %s", unit)
	}
	return d, nil
}

// Since resolves a span to the moment that far in the past from now.
func Since(s string) (time.Time, error) {
	d, err := Parse(s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Now().Add(-d), nil
}
