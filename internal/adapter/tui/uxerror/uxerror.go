// Package uxerror translates raw errors into user-friendly messages with
// recovery hints for the TUI.
package uxerror

import (
	"errors"
	"fmt"
	"strings"

	"genechat/internal/adapter/tui/theme"
	"genechat/internal/domain"
)

// FriendlyError is a user-facing error with suggestions for recovery.
type FriendlyError struct {
	Title   string   // short heading, e.g. "Connection Failed"
	Message string   // one-liner explanation
	Hints   []string // actionable recovery suggestions
	Raw     string   // original error text (for debug)
}

// Render formats the FriendlyError for display in the TUI message list.
func (fe FriendlyError) Render() string {
	var sb strings.Builder
	sb.WriteString(fe.Title)
	if fe.Message != "" {
		sb.WriteString("\n  ")
		sb.WriteString(fe.Message)
	}
	if len(fe.Hints) > 0 {
		sb.WriteString("\n  Suggestions:")
		for _, h := range fe.Hints {
			sb.WriteString(fmt.Sprintf("\n    %s %s", theme.SymbolBullet, h))
		}
	}
	return sb.String()
}

type errorPattern struct {
	match   func(err error) bool
	produce func(err error) FriendlyError
}

var patterns = []errorPattern{
	// Domain sentinel errors (checked first so errors.Is works through wrapping).
	{
		match:   func(err error) bool { return errors.Is(err, domain.ErrBusy) },
		produce: constantError("Request In Flight", "A previous message is still being processed.", []string{"Wait for the current response to finish", "Press Esc to cancel the in-flight request"}),
	},
	{
		match:   func(err error) bool { return errors.Is(err, domain.ErrTimeout) },
		produce: constantError("Request Timed Out", "The server took too long to answer.", []string{"Try again; complex variant lookups can be slow", "Check your network connection", "Increase backend.request_timeout in config"}),
	},
	{
		match:   func(err error) bool { return errors.Is(err, domain.ErrUnreachable) },
		produce: constantError("Connection Failed", "Could not reach the chat server.", []string{"Check your internet connection", "Verify backend.base_url in config", "Check if a firewall is blocking the connection"}),
	},
	{
		match:   func(err error) bool { return errors.Is(err, domain.ErrBackendStatus) },
		produce: constantError("Server Error", "The chat server reported an error while processing the request.", []string{"Try again in a moment", "Rephrase the question if the error persists"}),
	},
	{
		match:   func(err error) bool { return errors.Is(err, domain.ErrBackendPayload) },
		produce: constantError("Malformed Response", "The server replied with data the client could not understand.", []string{"Try again, this is usually transient", "Verify the client and server versions match"}),
	},
	{
		match:   func(err error) bool { return errors.Is(err, domain.ErrConfigLoad) },
		produce: constantError("Configuration Error", "The configuration file could not be loaded.", []string{"Check the YAML syntax of your config file", "Run with --config to point at a valid file"}),
	},

	// Network / connectivity patterns (string matching for external errors).
	{
		match:   containsAny("connection refused", "dial tcp", "no such host"),
		produce: constantError("Connection Failed", "Could not reach the remote service.", []string{"Check your internet connection", "Verify backend.base_url in config", "Check if a firewall is blocking the connection"}),
	},
	{
		match:   containsAny("deadline exceeded", "timeout", "context deadline"),
		produce: constantError("Request Timed Out", "The request took too long to complete.", []string{"Try again", "Check your network connection", "Increase backend.request_timeout in config"}),
	},

	// Rate limiting.
	{
		match:   containsAny("429", "rate limit", "too many requests"),
		produce: constantError("Rate Limited", "Too many requests sent to the server.", []string{"Wait a moment before retrying", "Reduce request frequency"}),
	},
}

// Humanize converts a raw error into a FriendlyError with recovery hints.
func Humanize(err error) FriendlyError {
	if err == nil {
		return FriendlyError{Title: "Unknown Error", Raw: "nil"}
	}

	for _, p := range patterns {
		if p.match(err) {
			return p.produce(err)
		}
	}

	// Fallback for unrecognized errors.
	return FriendlyError{
		Title:   "Unexpected Error",
		Message: err.Error(),
		Hints:   []string{"Try again", "Set logger.level to debug for more details"},
		Raw:     err.Error(),
	}
}

// containsAny returns a match func that checks if the error string contains
// any of the given substrings (case-insensitive).
func containsAny(substrs ...string) func(error) bool {
	return func(err error) bool {
		lower := strings.ToLower(err.Error())
		for _, s := range substrs {
			if strings.Contains(lower, s) {
				return true
			}
		}
		return false
	}
}

// constantError returns a produce func that always returns the same FriendlyError.
func constantError(title, message string, hints []string) func(error) FriendlyError {
	return func(err error) FriendlyError {
		return FriendlyError{
			Title:   title,
			Message: message,
			Hints:   hints,
			Raw:     err.Error(),
		}
	}
}
