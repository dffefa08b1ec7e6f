package backend

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"genechat/internal/domain"
	"genechat/internal/infra/config"
)

// streamPath is the backend streaming chat endpoint, relative to the base URL.
const streamPath = "/api/py/chat/stream"

// streamPart is one SSE data payload: either a plain text fragment or an
// embedded tool invocation. Invocations are only surfaced once they reach
// the "result" state.
type streamPart struct {
	Type      string          `json:"type"` // "text" or "tool-invocation"
	Text      string          `json:"text,omitempty"`
	State     string          `json:"state,omitempty"`
	Tool      string          `json:"tool,omitempty"`
	ID        string          `json:"id,omitempty"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
}

// StreamClient talks to the backend's SSE endpoint and reassembles the
// interleaved text and tool-invocation fragments into the same entry list
// the plain client produces.
type StreamClient struct {
	baseURL   string
	timeout   time.Duration
	http      *http.Client
	validator *ResultValidator
	logger    *slog.Logger
}

// NewStreamClient creates a streaming backend client.
func NewStreamClient(cfg config.BackendConfig, logger *slog.Logger) *StreamClient {
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	var validator *ResultValidator
	if cfg.ValidateTools {
		validator = NewResultValidator(logger)
	}

	return &StreamClient{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		timeout:   timeout,
		http:      NewHTTPClient(cfg),
		validator: validator,
		logger:    logger,
	}
}

// ChatStream implements domain.StreamingChatBackend. The returned channel is
// closed when the stream ends or ctx is cancelled.
func (c *StreamClient) ChatStream(ctx context.Context, message string) (<-chan domain.StreamEvent, error) {
	reqURL := c.baseURL + streamPath + "?message=" + url.QueryEscape(message)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, mapTransportError(err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, domain.NewDomainError("backend.stream", domain.ErrBackendStatus,
			fmt.Sprintf("status %d", resp.StatusCode))
	}

	return c.parseStream(ctx, resp.Body), nil
}

// Chat implements domain.ChatBackend by draining the stream into a full
// entry list, bounded by the configured request timeout.
func (c *StreamClient) Chat(ctx context.Context, message string) ([]domain.Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ch, err := c.ChatStream(ctx, message)
	if err != nil {
		return nil, err
	}

	var entries []domain.Entry
	for ev := range ch {
		if ev.Err != nil {
			return nil, ev.Err
		}
		if ev.Entry != nil {
			entries = append(entries, *ev.Entry)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, mapTransportError(err)
	}

	if c.validator != nil {
		c.validator.Demote(entries)
	}
	return entries, nil
}

// parseStream reads SSE data lines from body and converts them into stream
// events. Text fragments accumulate into a single assistant message that is
// flushed whenever a tool invocation interrupts it and at end of stream.
func (c *StreamClient) parseStream(ctx context.Context, body io.ReadCloser) <-chan domain.StreamEvent {
	ch := make(chan domain.StreamEvent, 16)
	go func() {
		defer close(ch)
		defer body.Close()

		var pending strings.Builder

		flush := func() bool {
			if pending.Len() == 0 {
				return true
			}
			entry := domain.NewAssistantMessage(pending.String())
			pending.Reset()
			select {
			case ch <- domain.StreamEvent{Entry: &entry}:
				return true
			case <-ctx.Done():
				return false
			}
		}

		scanner := bufio.NewScanner(body)
		scanner.Buffer(make([]byte, 0, 64*1024), maxResponseBody)
		for scanner.Scan() {
			select {
			case <-ctx.Done():
				return
			default:
			}

			line := scanner.Bytes()
			if len(line) == 0 || line[0] == ':' {
				continue
			}
			if !bytes.HasPrefix(line, []byte("data: ")) {
				continue
			}
			data := bytes.TrimPrefix(line, []byte("data: "))

			if bytes.Equal(data, []byte("[DONE]")) {
				if flush() {
					select {
					case ch <- domain.StreamEvent{Done: true}:
					case <-ctx.Done():
					}
				}
				return
			}

			var part streamPart
			if err := json.Unmarshal(data, &part); err != nil {
				// Skip unparseable fragments.
				continue
			}

			switch part.Type {
			case "text":
				pending.WriteString(part.Text)
				select {
				case ch <- domain.StreamEvent{Text: part.Text}:
				case <-ctx.Done():
					return
				}
			case "tool-invocation":
				if part.State != "result" {
					continue
				}
				if !flush() {
					return
				}
				use := domain.Entry{
					Role:      domain.RoleAssistant,
					Kind:      domain.KindToolUse,
					Tool:      part.Tool,
					ID:        part.ID,
					Arguments: part.Arguments,
				}
				result := domain.Entry{
					Role:   domain.RoleSystem,
					Kind:   domain.KindToolResult,
					Tool:   part.Tool,
					ID:     part.ID,
					Result: part.Result,
				}
				for _, e := range []domain.Entry{use, result} {
					entry := e
					select {
					case ch <- domain.StreamEvent{Entry: &entry}:
					case <-ctx.Done():
						return
					}
				}
			}
		}

		if err := scanner.Err(); err != nil {
			select {
			case ch <- domain.StreamEvent{Err: mapTransportError(err)}:
			case <-ctx.Done():
			}
			return
		}
		if flush() {
			select {
			case ch <- domain.StreamEvent{Done: true}:
			case <-ctx.Done():
			}
		}
	}()
	return ch
}

// Compile-time interface checks.
var (
	_ domain.ChatBackend          = (*StreamClient)(nil)
	_ domain.StreamingChatBackend = (*StreamClient)(nil)
)
