package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"genechat/internal/domain"
)

// Config is the top-level application configuration.
type Config struct {
	Backend BackendConfig `yaml:"backend"`
	UI      UIConfig      `yaml:"ui"`
	Logger  LoggerConfig  `yaml:"logger"`
	Tracer  TracerConfig  `yaml:"tracer"`
}

// BackendConfig holds chat backend settings.
type BackendConfig struct {
	BaseURL        string               `yaml:"base_url"`
	Transport      string               `yaml:"transport"` // "rest" or "sse"
	RequestTimeout time.Duration        `yaml:"request_timeout"`
	ConnTimeout    time.Duration        `yaml:"conn_timeout"`
	DropEcho       bool                 `yaml:"drop_echo"`
	ValidateTools  bool                 `yaml:"validate_tools"`
	Pool           PoolConfig           `yaml:"pool"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
}

// PoolConfig holds HTTP connection pool settings.
type PoolConfig struct {
	MaxIdleConns        int           `yaml:"max_idle_conns"`
	MaxIdleConnsPerHost int           `yaml:"max_idle_conns_per_host"`
	MaxConnsPerHost     int           `yaml:"max_conns_per_host"`
	IdleConnTimeout     time.Duration `yaml:"idle_conn_timeout"`
}

// CircuitBreakerConfig holds circuit breaker settings for the backend.
type CircuitBreakerConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxFailures uint32        `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
	Interval    time.Duration `yaml:"interval"`
}

// UIConfig holds terminal interface settings.
type UIConfig struct {
	StreamInterval time.Duration `yaml:"stream_interval"` // delay between simulated stream chunks
	StreamChunk    int           `yaml:"stream_chunk"`    // runes revealed per tick
	Markdown       bool          `yaml:"markdown"`        // render assistant messages as markdown
	ASCIISymbols   bool          `yaml:"ascii_symbols"`   // plain ASCII instead of unicode glyphs
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// TracerConfig holds tracing settings.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
	Endpoint string `yaml:"endpoint"`
}

// Defaults returns a Config with sensible defaults.
func Defaults() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL:        "http://localhost:3000",
			Transport:      "rest",
			RequestTimeout: 60 * time.Second,
			ConnTimeout:    10 * time.Second,
			DropEcho:       true,
			ValidateTools:  true,
			Pool: PoolConfig{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				MaxConnsPerHost:     10,
				IdleConnTimeout:     90 * time.Second,
			},
			CircuitBreaker: CircuitBreakerConfig{
				Enabled:     true,
				MaxFailures: 5,
				Timeout:     30 * time.Second,
				Interval:    60 * time.Second,
			},
		},
		UI: UIConfig{
			StreamInterval: 25 * time.Millisecond,
			StreamChunk:    3,
			Markdown:       true,
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
			// The TUI owns the terminal; stderr logging would tear it.
			Output: "discard",
		},
		Tracer: TracerConfig{
			Enabled:  false,
			Exporter: "noop",
		},
	}
}

// Load reads a YAML config file and applies env var overrides.
// A missing file is not an error; defaults plus env overrides are used.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			ApplyEnvOverrides(cfg)
			if err := Validate(cfg); err != nil {
				return nil, fmt.Errorf("%w: %w", domain.ErrConfigLoad, err)
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrConfigLoad, path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", domain.ErrConfigLoad, path, err)
	}

	ApplyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfigLoad, err)
	}

	return cfg, nil
}

// ApplyEnvOverrides maps GENECHAT_* env vars to config fields.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GENECHAT_BACKEND_BASE_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := os.Getenv("GENECHAT_BACKEND_TRANSPORT"); v != "" {
		cfg.Backend.Transport = v
	}
	if v := os.Getenv("GENECHAT_BACKEND_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Backend.RequestTimeout = d
		}
	}
	if v := os.Getenv("GENECHAT_BACKEND_CONN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Backend.ConnTimeout = d
		}
	}
	if v := os.Getenv("GENECHAT_BACKEND_DROP_ECHO"); v == "false" {
		cfg.Backend.DropEcho = false
	}
	if v := os.Getenv("GENECHAT_BACKEND_VALIDATE_TOOLS"); v == "false" {
		cfg.Backend.ValidateTools = false
	}
	if v := os.Getenv("GENECHAT_BACKEND_BREAKER_ENABLED"); v == "false" {
		cfg.Backend.CircuitBreaker.Enabled = false
	}
	if v := os.Getenv("GENECHAT_BACKEND_BREAKER_MAX_FAILURES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Backend.CircuitBreaker.MaxFailures = uint32(n)
		}
	}
	if v := os.Getenv("GENECHAT_UI_STREAM_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.UI.StreamInterval = d
		}
	}
	if v := os.Getenv("GENECHAT_UI_STREAM_CHUNK"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.UI.StreamChunk = n
		}
	}
	if v := os.Getenv("GENECHAT_UI_MARKDOWN"); v == "false" {
		cfg.UI.Markdown = false
	}
	if v := os.Getenv("GENECHAT_ASCII_SYMBOLS"); v == "true" || v == "1" {
		cfg.UI.ASCIISymbols = true
	}
	if v := os.Getenv("GENECHAT_LOGGER_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("GENECHAT_LOGGER_FORMAT"); v != "" {
		cfg.Logger.Format = v
	}
	if v := os.Getenv("GENECHAT_LOGGER_OUTPUT"); v != "" {
		cfg.Logger.Output = v
	}
	if v := os.Getenv("GENECHAT_TRACER_ENABLED"); v == "true" {
		cfg.Tracer.Enabled = true
	}
	if v := os.Getenv("GENECHAT_TRACER_EXPORTER"); v != "" {
		cfg.Tracer.Exporter = v
	}
}
