package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		enable slog.Level
	}{
		{"debug level", "debug", slog.LevelDebug},
		{"warn level", "warn", slog.LevelWarn},
		{"warning alias", "WARNING", slog.LevelWarn},
		{"default info", "", slog.LevelInfo},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.level)
			if !logger.Enabled(ctx, tt.enable) {
				t.Fatalf("expected level %s to be enabled", tt.enable)
			}
		})
	}
}

func TestDefaultLogger(t *testing.T) {
	logger := Default()
	logger.Info("test message", "key", "value")

	ctx := context.Background()
	if !logger.Enabled(ctx, slog.LevelInfo) {
		t.Error("Default() should enable info level")
	}
	if logger.Enabled(ctx, slog.LevelDebug) {
		t.Error("Default() should not enable debug level")
	}
	if logger.Logger == nil {
		t.Fatal("Default() returned Logger with nil slog.Logger")
	}
	if Default() == logger {
		t.Error("Default() returned the same instance twice")
	}
}

func TestWithConversationTagsLines(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "info").WithConversation("call:CA1").WithComponent("engine")
	logger.Info("turn processed")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if line["conversation_id"] != "call:CA1" {
		t.Fatalf("expected conversation_id tag, got %v", line["conversation_id"])
	}
	if line["component"] != "engine" {
		t.Fatalf("expected component tag, got %v", line["component"])
	}
}

func TestNilLoggerChildren(t *testing.T) {
	var l *Logger
	if l.WithConversation("x") == nil || l.WithComponent("y") == nil {
		t.Fatal("expected nil receiver to fall back to default logger")
	}
}
