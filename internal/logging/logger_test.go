package logging

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/kuhlman-labs/descope-migrator/internal/config"
)

func testLoggingConfig(t *testing.T, format string) config.LoggingConfig {
	t.Helper()
	return config.LoggingConfig{
		Level:      "debug",
		Format:     format,
		OutputFile: filepath.Join(t.TempDir(), "migrator.log"),
		MaxSize:    1,
		MaxBackups: 1,
		MaxAge:     1,
	}
}

func TestNewLogger_Text(t *testing.T) {
	logger := NewLogger(testLoggingConfig(t, "text"))
	if logger == nil {
		t.Fatal("NewLogger() returned nil")
	}
	logger.Info("text logger works", "key", "value")
}

func TestNewLogger_JSON(t *testing.T) {
	logger := NewLogger(testLoggingConfig(t, "json"))
	if logger == nil {
		t.Fatal("NewLogger() returned nil")
	}
	logger.Debug("json logger works")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

type recordingHandler struct {
	records []slog.Record
	level   slog.Level
}

func (h *recordingHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.records = append(h.records, r)
	return nil
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler      { return h }

func TestMultiHandler_FansOut(t *testing.T) {
	first := &recordingHandler{level: slog.LevelDebug}
	second := &recordingHandler{level: slog.LevelDebug}
	logger := slog.New(NewMultiHandler(first, second))

	logger.Warn("one")
	logger.Info("two")

	if len(first.records) != 2 {
		t.Errorf("first handler got %d records, want 2", len(first.records))
	}
	if len(second.records) != 2 {
		t.Errorf("second handler got %d records, want 2", len(second.records))
	}
}

func TestMultiHandler_EnabledIfAnyEnabled(t *testing.T) {
	quiet := &recordingHandler{level: slog.LevelError}
	verbose := &recordingHandler{level: slog.LevelDebug}

	if NewMultiHandler(quiet).Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Enabled() = true with only an error-level handler")
	}
	if !NewMultiHandler(quiet, verbose).Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Enabled() = false with a debug-level handler present")
	}
}
