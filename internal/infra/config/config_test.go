package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"genechat/internal/domain"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.Backend.BaseURL != "http://localhost:3000" {
		t.Errorf("Backend.BaseURL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.RequestTimeout != 60*time.Second {
		t.Errorf("Backend.RequestTimeout = %v, want 60s", cfg.Backend.RequestTimeout)
	}
	if !cfg.Backend.DropEcho {
		t.Error("Backend.DropEcho should default to true")
	}
	if cfg.Logger.Level != "info" {
		t.Errorf("Logger.Level = %q, want %q", cfg.Logger.Level, "info")
	}
}

func TestLoadNonExistentReturnsDefaults(t *testing.T) {
	cfg, err := Load("/tmp/nonexistent-config-12345.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.Transport != "rest" {
		t.Errorf("expected defaults, got Transport=%q", cfg.Backend.Transport)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
backend:
  base_url: "http://example.test:8080"
  transport: "sse"
  request_timeout: 30s
ui:
  stream_chunk: 5
logger:
  level: "debug"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.BaseURL != "http://example.test:8080" {
		t.Errorf("BaseURL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Transport != "sse" {
		t.Errorf("Transport = %q, want sse", cfg.Backend.Transport)
	}
	if cfg.Backend.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", cfg.Backend.RequestTimeout)
	}
	if cfg.UI.StreamChunk != 5 {
		t.Errorf("StreamChunk = %d, want 5", cfg.UI.StreamChunk)
	}
	if cfg.Logger.Level != "debug" {
		t.Errorf("Logger.Level = %q, want debug", cfg.Logger.Level)
	}
	// Fields absent from the file keep their defaults.
	if !cfg.Backend.DropEcho {
		t.Error("DropEcho should keep its default")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("backend: [not a map"), 0600); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !errors.Is(err, domain.ErrConfigLoad) {
		t.Errorf("error %v does not wrap ErrConfigLoad", err)
	}
}

func TestLoadInvalidValuesWrapConfigLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("backend:\n  transport: carrier-pigeon\n"), 0600); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, domain.ErrConfigLoad) {
		t.Errorf("error %v does not wrap ErrConfigLoad", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GENECHAT_BACKEND_BASE_URL", "https://genechat.example.org")
	t.Setenv("GENECHAT_BACKEND_DROP_ECHO", "false")
	t.Setenv("GENECHAT_LOGGER_LEVEL", "warn")
	t.Setenv("GENECHAT_UI_STREAM_INTERVAL", "50ms")

	cfg := Defaults()
	ApplyEnvOverrides(cfg)

	if cfg.Backend.BaseURL != "https://genechat.example.org" {
		t.Errorf("BaseURL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.DropEcho {
		t.Error("DropEcho should be overridden to false")
	}
	if cfg.Logger.Level != "warn" {
		t.Errorf("Logger.Level = %q", cfg.Logger.Level)
	}
	if cfg.UI.StreamInterval != 50*time.Millisecond {
		t.Errorf("StreamInterval = %v", cfg.UI.StreamInterval)
	}
}
