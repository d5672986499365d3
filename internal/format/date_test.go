package format

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		ok   bool
		want string // YYYY-MM-DD of the parsed time, when ok
	}{
		{"2024-03-01T10:30:00Z", true, "2024-03-01"},
		{"2024-03-01T10:30:00.123456Z", true, "2024-03-01"},
		{"2024-03-01 10:30:00", true, "2024-03-01"},
		{"2024-03-01", true, "2024-03-01"},
		{"2024/03/01", true, "2024-03-01"},
		{"03/01/2024", true, "2024-03-01"},
		{"3/1/2024", true, "2024-03-01"},
		{"not a date", false, ""},
		{"foo-bar", false, ""},
		{"", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			if ok != tt.ok {
				t.Fatalf("ParseDate(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if ok && got.Format("2006-01-02") != tt.want {
				t.Errorf("ParseDate(%q) = %s, want %s", tt.in, got.Format("2006-01-02"), tt.want)
			}
		})
	}
}

func TestDate(t *testing.T) {
	ts := time.Date(2024, time.March, 1, 10, 30, 0, 0, time.UTC)
	if got := Date(ts); got != "Mar 1, 2024" {
		t.Errorf("Date() = %q", got)
	}
}

func TestDateString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-03-01T10:30:00Z", "Mar 1, 2024"},
		{"2024-12-25", "Dec 25, 2024"},
		{"unparseable", "unparseable"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := DateString(tt.in); got != tt.want {
				t.Errorf("DateString(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
