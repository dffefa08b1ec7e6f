package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError accumulates config validation errors.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return "config validation failed:\n  - " + strings.Join(v.Errors, "\n  - ")
}

// HasErrors reports whether any validation errors have been recorded.
func (v *ValidationError) HasErrors() bool {
	return len(v.Errors) > 0
}

// Add records a formatted validation error.
func (v *ValidationError) Add(format string, args ...interface{}) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

// Validate checks cfg for structural correctness. It returns a *ValidationError
// when one or more problems are found, allowing callers to inspect all issues.
func Validate(cfg *Config) error {
	ve := &ValidationError{}
	validateBackend(cfg, ve)
	validateUI(cfg, ve)
	validateLogger(cfg, ve)
	validateTracer(cfg, ve)
	if ve.HasErrors() {
		return ve
	}
	return nil
}

func validateBackend(cfg *Config, ve *ValidationError) {
	if cfg.Backend.BaseURL == "" {
		ve.Add("backend.base_url must not be empty")
	} else {
		u, err := url.Parse(cfg.Backend.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			ve.Add("backend.base_url %q is not a valid URL", cfg.Backend.BaseURL)
		} else if u.Scheme != "http" && u.Scheme != "https" {
			ve.Add("backend.base_url scheme %q is invalid (want: http, https)", u.Scheme)
		}
	}
	switch cfg.Backend.Transport {
	case "rest", "sse":
	default:
		ve.Add("backend.transport %q is invalid (want: rest, sse)", cfg.Backend.Transport)
	}
	if cfg.Backend.RequestTimeout <= 0 {
		ve.Add("backend.request_timeout must be > 0")
	}
	if cfg.Backend.ConnTimeout <= 0 {
		ve.Add("backend.conn_timeout must be > 0")
	}
	if cfg.Backend.CircuitBreaker.Enabled && cfg.Backend.CircuitBreaker.MaxFailures == 0 {
		ve.Add("backend.circuit_breaker.max_failures must be > 0 when the breaker is enabled")
	}
}

func validateUI(cfg *Config, ve *ValidationError) {
	if cfg.UI.StreamInterval <= 0 {
		ve.Add("ui.stream_interval must be > 0")
	}
	if cfg.UI.StreamChunk <= 0 {
		ve.Add("ui.stream_chunk must be > 0")
	}
}

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "warning": true, "error": true,
}

func validateLogger(cfg *Config, ve *ValidationError) {
	if !validLogLevels[strings.ToLower(cfg.Logger.Level)] {
		ve.Add("logger.level %q is invalid (want: debug, info, warn, error)", cfg.Logger.Level)
	}
	switch strings.ToLower(cfg.Logger.Format) {
	case "text", "json", "":
	default:
		ve.Add("logger.format %q is invalid (want: text, json)", cfg.Logger.Format)
	}
}

func validateTracer(cfg *Config, ve *ValidationError) {
	if !cfg.Tracer.Enabled {
		return
	}
	switch cfg.Tracer.Exporter {
	case "stdout", "noop", "":
	default:
		ve.Add("tracer.exporter %q is invalid (want: stdout, noop)", cfg.Tracer.Exporter)
	}
}
