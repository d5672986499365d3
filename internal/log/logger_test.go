package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestInitialize(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelInfo, &buf)

	if Verbosity() != LevelInfo {
		t.Errorf("expected verbosity %d, got %d", LevelInfo, Verbosity())
	}
}

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer

	// Test at trace level so all messages are captured
	Initialize(LevelTrace, &buf)

	Info("test info", "key", "value")
	Debug("test debug", "key", "value")
	Trace("test trace", "key", "value")
	Warn("test warn", "key", "value")
	Error("test error", "key", "value")

	out := buf.String()
	for _, want := range []string{"test info", "test debug", "test trace", "test warn", "test error"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
}

func TestQuietSuppressesInfo(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelQuiet, &buf)

	Info("should not appear")
	if buf.Len() != 0 {
		t.Errorf("expected no output at quiet level, got %q", buf.String())
	}

	Error("should appear")
	if buf.Len() == 0 {
		t.Error("expected error output at quiet level")
	}
}

func TestVerbosityLevels(t *testing.T) {
	tests := []struct {
		level   int
		isInfo  bool
		isDebug bool
		isTrace bool
	}{
		{LevelQuiet, false, false, false},
		{LevelInfo, true, false, false},
		{LevelDebug, true, true, false},
		{LevelTrace, true, true, true},
	}

	var buf bytes.Buffer
	for _, tt := range tests {
		Initialize(tt.level, &buf)

		if IsInfo() != tt.isInfo {
			t.Errorf("at level %d: expected IsInfo()=%v, got %v", tt.level, tt.isInfo, IsInfo())
		}
		if IsDebug() != tt.isDebug {
			t.Errorf("at level %d: expected IsDebug()=%v, got %v", tt.level, tt.isDebug, IsDebug())
		}
		if IsTrace() != tt.isTrace {
			t.Errorf("at level %d: expected IsTrace()=%v, got %v", tt.level, tt.isTrace, IsTrace())
		}
	}
}
