package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"genechat/internal/domain"
	"genechat/internal/infra/config"
	"genechat/internal/infra/tracer"
)

// chatPath is the backend chat endpoint, relative to the base URL.
const chatPath = "/api/py/chat"

// maxResponseBody is the maximum response body size we read from the backend.
const maxResponseBody = 10 * 1024 * 1024 // 10 MB

// Client talks to the chat backend over plain HTTP. One request carries one
// user message; the response is the full assistant turn as a conversation
// array.
type Client struct {
	baseURL   string
	timeout   time.Duration
	http      *http.Client
	validator *ResultValidator
	logger    *slog.Logger
}

// NewClient creates a backend client with pooled transport and a fixed
// per-request timeout.
func NewClient(cfg config.BackendConfig, logger *slog.Logger) *Client {
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	var validator *ResultValidator
	if cfg.ValidateTools {
		validator = NewResultValidator(logger)
	}

	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		timeout:   timeout,
		http:      NewHTTPClient(cfg),
		validator: validator,
		logger:    logger,
	}
}

// Chat implements domain.ChatBackend. The request is bounded by the
// configured timeout regardless of the parent context.
func (c *Client) Chat(ctx context.Context, message string) ([]domain.Entry, error) {
	ctx, span := tracer.StartSpan(ctx, "backend.chat",
		trace.WithAttributes(tracer.IntAttr("chat.message_len", len(message))),
	)
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqURL := c.baseURL + chatPath + "?message=" + url.QueryEscape(message)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		tracer.RecordError(span, err)
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		err = mapTransportError(err)
		tracer.RecordError(span, err)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		err = mapTransportError(err)
		tracer.RecordError(span, err)
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		err = domain.NewDomainError("backend.chat", domain.ErrBackendStatus,
			fmt.Sprintf("status %d", resp.StatusCode))
		tracer.RecordError(span, err)
		return nil, err
	}

	var turn domain.Turn
	if err := json.Unmarshal(body, &turn); err != nil {
		err = domain.NewDomainError("backend.chat", domain.ErrBackendPayload, err.Error())
		tracer.RecordError(span, err)
		return nil, err
	}

	if c.validator != nil {
		c.validator.Demote(turn.Entries)
	}

	span.SetAttributes(tracer.IntAttr("chat.entries", len(turn.Entries)))
	tracer.SetOK(span)
	c.logger.Debug("backend chat completed", "entries", len(turn.Entries))

	return turn.Entries, nil
}

// mapTransportError classifies a transport-level failure into the error
// taxonomy: deadline expiry is a timeout, everything else is connectivity.
func mapTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewDomainError("backend.chat", domain.ErrTimeout, "")
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.NewDomainError("backend.chat", domain.ErrTimeout, "")
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return domain.NewDomainError("backend.chat", domain.ErrUnreachable, err.Error())
}

// Compile-time interface check.
var _ domain.ChatBackend = (*Client)(nil)
