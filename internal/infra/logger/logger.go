// Package logger builds the application *slog.Logger. The chat TUI owns
// the terminal while it runs, so writing log lines to stdout or stderr
// tears the alternate screen; the default output is therefore "discard",
// and file output is the way to capture logs from a live session.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"genechat/internal/infra/config"
)

// New creates a configured *slog.Logger. The returned closer flushes and
// closes file-backed outputs; defer it before the TUI starts.
func New(cfg config.LoggerConfig) (*slog.Logger, func() error, error) {
	writer, closer, err := openOutput(cfg.Output)
	if err != nil {
		return nil, nil, fmt.Errorf("open log output: %w", err)
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(writer, opts)
	default:
		handler = slog.NewTextHandler(writer, opts)
	}

	return slog.New(handler), closer, nil
}

// parseLevel maps a config level string to slog.Level. Unknown values
// fall back to info rather than failing startup.
func parseLevel(s string) slog.Level {
	if strings.EqualFold(s, "warning") {
		return slog.LevelWarn
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// openOutput resolves the configured output target. "discard" (and the
// empty default) silences logging entirely; "stdout" and "stderr" are
// honored but will interleave with the TUI's screen; anything else is
// treated as a file path and opened for append.
func openOutput(output string) (io.Writer, func() error, error) {
	noop := func() error { return nil }

	switch strings.ToLower(output) {
	case "discard", "":
		return io.Discard, noop, nil
	case "stdout":
		return os.Stdout, noop, nil
	case "stderr":
		return os.Stderr, noop, nil
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return nil, nil, err
		}
		return f, f.Close, nil
	}
}
