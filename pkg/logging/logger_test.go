package logging

import (
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
		"VERBOSE": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewReturnsUsableLogger(t *testing.T) {
	logger := New("debug")
	if logger == nil || logger.Logger == nil {
		t.Fatal("expected non-nil logger")
	}
	logger.Debug("smoke", "key", "value")
}

func TestWithPreservesWrapper(t *testing.T) {
	logger := Default().With("component", "test")
	if logger == nil || logger.Logger == nil {
		t.Fatal("expected non-nil derived logger")
	}
}
