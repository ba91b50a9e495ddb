package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		input    string
		expected zapcore.Level
		wantErr  bool
	}{
		{"", zapcore.WarnLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"INFO", zapcore.InfoLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"verbose", zapcore.InfoLevel, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseLevel(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("Expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestNew(t *testing.T) {
	for _, format := range []string{"", FormatConsole, FormatJSON} {
		logger, err := New("debug", format)
		if err != nil {
			t.Fatalf("format %q: unexpected error: %v", format, err)
		}
		if !logger.Core().Enabled(zapcore.DebugLevel) {
			t.Errorf("format %q: expected debug to be enabled", format)
		}
	}

	logger, err := New("", FormatJSON)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("Expected info to be disabled at the default level")
	}
}

func TestNew_InvalidFormat(t *testing.T) {
	if _, err := New("info", "xml"); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestMust_FallsBackToNop(t *testing.T) {
	logger := Must("nonsense", "")
	if logger == nil {
		t.Fatal("Expected a logger")
	}
	if logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("Expected no-op logger on invalid level")
	}
}
