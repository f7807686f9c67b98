package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestSourceHandler(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		levels     []slog.Level
		wantSource bool
	}{
		{"info hidden", slog.LevelInfo, []slog.Level{slog.LevelWarn, slog.LevelError}, false},
		{"warn shown", slog.LevelWarn, []slog.Level{slog.LevelWarn, slog.LevelError}, true},
		{"error shown", slog.LevelError, []slog.Level{slog.LevelWarn, slog.LevelError}, true},
		{"info shown in debug mode", slog.LevelInfo, []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			base := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
			log := slog.New(newSourceHandler(base, tt.levels...))

			log.Log(context.Background(), tt.level, "grant applied", "role_id", 7)

			out := buf.String()
			if got := strings.Contains(out, "source="); got != tt.wantSource {
				t.Errorf("source present = %v, want %v; output: %s", got, tt.wantSource, out)
			}
			if !strings.Contains(out, "role_id=7") {
				t.Errorf("expected role_id attribute; output: %s", out)
			}
		})
	}
}

func TestSourceHandler_WithAttrsKeepsLevels(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewTextHandler(&buf, nil)
	log := slog.New(newSourceHandler(base, slog.LevelError)).With("component", "rbac")

	log.Info("hello")
	if strings.Contains(buf.String(), "source=") {
		t.Errorf("info should not carry source: %s", buf.String())
	}

	buf.Reset()
	log.Error("boom")
	if !strings.Contains(buf.String(), "source=") || !strings.Contains(buf.String(), "component=rbac") {
		t.Errorf("error should carry source and attrs: %s", buf.String())
	}
}
