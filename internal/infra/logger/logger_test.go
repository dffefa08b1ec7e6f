package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"genechat/internal/infra/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestOpenOutputDiscardIsDefault(t *testing.T) {
	for _, target := range []string{"", "discard", "DISCARD"} {
		w, closer, err := openOutput(target)
		if err != nil {
			t.Fatalf("openOutput(%q): %v", target, err)
		}
		defer closer()
		if w != io.Discard {
			t.Errorf("openOutput(%q): expected io.Discard", target)
		}
	}
}

func TestOpenOutputTerminalStreams(t *testing.T) {
	w, closer, err := openOutput("stdout")
	if err != nil {
		t.Fatalf("openOutput(stdout): %v", err)
	}
	defer closer()
	if w != os.Stdout {
		t.Error("expected os.Stdout")
	}

	w, closer, err = openOutput("stderr")
	if err != nil {
		t.Fatalf("openOutput(stderr): %v", err)
	}
	defer closer()
	if w != os.Stderr {
		t.Error("expected os.Stderr")
	}
}

func TestOpenOutputInvalidPath(t *testing.T) {
	_, _, err := openOutput("/nonexistent/dir/log.txt")
	if err == nil {
		t.Error("expected error for invalid path")
	}
}

func TestNewLoggerFileOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "genechat.log")

	cfg := config.LoggerConfig{Level: "info", Format: "json", Output: path}
	log, closer, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	log.Info("session started", "backend", "localhost:3000")
	if err := closer(); err != nil {
		t.Fatalf("closer: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "session started") {
		t.Errorf("log file missing message: %q", string(data))
	}
	if !strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
		t.Errorf("json format expected, got %q", string(data))
	}
}

func TestNewLoggerFileAppends(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "genechat.log")

	for i := 0; i < 2; i++ {
		cfg := config.LoggerConfig{Level: "info", Format: "text", Output: path}
		log, closer, err := New(cfg)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		log.Info("run", "n", i)
		if err := closer(); err != nil {
			t.Fatalf("closer: %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got := strings.Count(string(data), "msg=run"); got != 2 {
		t.Errorf("expected 2 appended lines, got %d: %q", got, string(data))
	}
}

func TestNewLoggerInvalidOutput(t *testing.T) {
	cfg := config.LoggerConfig{Level: "info", Format: "text", Output: "/nonexistent/dir/app.log"}
	_, _, err := New(cfg)
	if err == nil {
		t.Error("expected error for invalid output path")
	}
}

func TestNewLoggerLevelFiltering(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "genechat.log")

	cfg := config.LoggerConfig{Level: "warn", Format: "text", Output: path}
	log, closer, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Info("filtered")
	log.Warn("kept")
	if err := closer(); err != nil {
		t.Fatalf("closer: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if strings.Contains(string(data), "filtered") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(string(data), "kept") {
		t.Error("warn message should appear at warn level")
	}
}
