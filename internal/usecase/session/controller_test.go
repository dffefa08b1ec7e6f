package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"genechat/internal/domain"
)

// scriptedBackend returns a fixed turn or error, optionally blocking until
// released to simulate an in-flight request.
type scriptedBackend struct {
	turn    []domain.Entry
	err     error
	block   chan struct{}
	calls   int
	callsMu sync.Mutex
}

func (b *scriptedBackend) Chat(ctx context.Context, message string) ([]domain.Entry, error) {
	b.callsMu.Lock()
	b.calls++
	b.callsMu.Unlock()
	if b.block != nil {
		<-b.block
	}
	return b.turn, b.err
}

func newTestController(backend domain.ChatBackend) *Controller {
	return NewController(NewStore(), backend, true, slog.Default())
}

func weatherTurn(echo string) []domain.Entry {
	return []domain.Entry{
		{Role: domain.RoleUser, Kind: domain.KindMessage, Content: echo},
		domain.NewAssistantMessage("Checking the weather."),
		{Role: domain.RoleAssistant, Kind: domain.KindToolUse, Tool: domain.ToolWeather, ID: "t1", Arguments: json.RawMessage(`{"lat":42.36,"lon":-71.06}`)},
		{Role: domain.RoleSystem, Kind: domain.KindToolResult, Tool: domain.ToolWeather, ID: "t1", Result: json.RawMessage(`{"temperature":21.5,"unit":"celsius"}`)},
	}
}

func TestSubmitWeatherTurn(t *testing.T) {
	msg := "What is the weather in Boston?"
	backend := &scriptedBackend{turn: weatherTurn(msg)}
	c := newTestController(backend)

	appended, err := c.Submit(context.Background(), msg)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	// The leading echo is dropped: one assistant message plus the
	// tool_use/tool_result pair.
	if len(appended) != 3 {
		t.Fatalf("appended %d entries, want 3", len(appended))
	}

	entries := c.Store().Entries()
	if len(entries) != 4 { // user + 3
		t.Fatalf("store has %d entries, want 4", len(entries))
	}
	if entries[0].Role != domain.RoleUser || entries[0].Content != msg {
		t.Errorf("entries[0] = %+v, want optimistic user entry", entries[0])
	}
	if !entries[2].IsToolUse() || !entries[3].IsToolResult() {
		t.Error("expected tool_use/tool_result pair")
	}
	if _, ok := c.Store().ToolUse("t1"); !ok {
		t.Error("tool_use not indexed after Submit")
	}
	if c.Busy() {
		t.Error("busy flag should clear after Submit")
	}
}

func TestSubmitEmptyIsNoOp(t *testing.T) {
	backend := &scriptedBackend{}
	c := newTestController(backend)

	for _, input := range []string{"", "   ", "\n\t"} {
		_, err := c.Submit(context.Background(), input)
		if !errors.Is(err, domain.ErrEmptyMessage) {
			t.Errorf("Submit(%q) err = %v, want ErrEmptyMessage", input, err)
		}
	}
	if backend.calls != 0 {
		t.Errorf("backend called %d times for empty input", backend.calls)
	}
	if c.Store().Len() != 0 {
		t.Error("no entry should be appended for empty input")
	}
}

func TestSubmitTimeoutAppendsSyntheticMessage(t *testing.T) {
	backend := &scriptedBackend{err: domain.NewDomainError("backend.chat", domain.ErrTimeout, "")}
	c := newTestController(backend)

	appended, err := c.Submit(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(appended) != 1 {
		t.Fatalf("appended %d entries, want 1 synthetic message", len(appended))
	}
	if appended[0].Role != domain.RoleAssistant || !appended[0].IsMessage() {
		t.Errorf("synthetic entry = %+v, want assistant message", appended[0])
	}
	if !strings.Contains(appended[0].Content, "too long") {
		t.Errorf("timeout message = %q, want timeout-specific text", appended[0].Content)
	}
	if c.Busy() {
		t.Error("busy flag should clear after a failed turn")
	}
}

func TestSubmitErrorTaxonomy(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{domain.ErrTimeout, msgTimeout},
		{domain.ErrUnreachable, msgUnreachable},
		{domain.ErrBackendStatus, msgServerError},
		{domain.ErrBackendPayload, msgServerError},
	}
	for _, tt := range tests {
		backend := &scriptedBackend{err: tt.err}
		c := newTestController(backend)
		appended, err := c.Submit(context.Background(), "hi")
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if appended[0].Content != tt.want {
			t.Errorf("message for %v = %q, want %q", tt.err, appended[0].Content, tt.want)
		}
	}
}

func TestSubmitWhileBusyIsRejected(t *testing.T) {
	backend := &scriptedBackend{block: make(chan struct{})}
	c := newTestController(backend)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.Submit(context.Background(), "first")
	}()

	// Wait until the first submission is in flight.
	deadline := time.After(2 * time.Second)
	for !c.Busy() {
		select {
		case <-deadline:
			t.Fatal("first submission never became busy")
		case <-time.After(time.Millisecond):
		}
	}

	_, err := c.Submit(context.Background(), "second")
	if !errors.Is(err, domain.ErrBusy) {
		t.Errorf("err = %v, want ErrBusy", err)
	}
	if c.Store().Len() != 1 {
		t.Errorf("rejected submission must not append; store has %d entries", c.Store().Len())
	}

	close(backend.block)
	<-done
}

func TestSubmitKeepsEchoWhenDisabled(t *testing.T) {
	msg := "hello"
	backend := &scriptedBackend{turn: weatherTurn(msg)}
	c := NewController(NewStore(), backend, false, slog.Default())

	appended, err := c.Submit(context.Background(), msg)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(appended) != 4 {
		t.Errorf("appended %d entries, want 4 with echo kept", len(appended))
	}
}

func TestSubmitNoEchoToDrop(t *testing.T) {
	backend := &scriptedBackend{turn: []domain.Entry{domain.NewAssistantMessage("hi there")}}
	c := newTestController(backend)

	appended, err := c.Submit(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(appended) != 1 {
		t.Errorf("appended %d entries, want 1", len(appended))
	}
}
