package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/trace"

	"genechat/internal/domain"
	"genechat/internal/infra/tracer"
)

// User-facing error messages for failed turns. The taxonomy distinguishes
// timeouts from connectivity failures from server-side errors.
const (
	msgTimeout     = "Sorry, the request took too long. Please try again."
	msgUnreachable = "Sorry, I couldn't reach the server. Check your connection and try again."
	msgServerError = "Sorry, something went wrong while processing your request. Please try again."
)

// Controller runs the submission flow: optimistic user append, one bounded
// backend request, and appending the returned turn (or a synthetic error
// message) to the store. Exactly one submission is in flight at a time;
// a submission while busy is rejected with domain.ErrBusy.
type Controller struct {
	mu       sync.Mutex
	busy     bool
	store    *Store
	backend  domain.ChatBackend
	dropEcho bool
	logger   *slog.Logger
}

// NewController creates a submission controller over store and backend.
// When dropEcho is set, a leading entry duplicating the submitted message
// is discarded before appending, matching the backend convention of echoing
// the user message as the first element of a turn.
func NewController(store *Store, backend domain.ChatBackend, dropEcho bool, logger *slog.Logger) *Controller {
	return &Controller{
		store:    store,
		backend:  backend,
		dropEcho: dropEcho,
		logger:   logger,
	}
}

// Store returns the transcript store, for read-only view access.
func (c *Controller) Store() *Store { return c.store }

// Busy reports whether a submission is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Submit sends one user message and appends everything it produced.
//
// Empty or whitespace-only text is a no-op returning domain.ErrEmptyMessage.
// A submission while one is in flight returns domain.ErrBusy without side
// effects. Otherwise the user entry is appended immediately, before the
// network call resolves, and the busy flag is guaranteed to clear whichever
// way the request ends.
//
// The returned entries are the ones appended after the user entry: the
// backend turn on success, or a single synthetic assistant message on
// failure. Failures are not returned as errors; the transcript carries them.
func (c *Controller) Submit(ctx context.Context, text string) ([]domain.Entry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrEmptyMessage
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return nil, domain.ErrBusy
	}
	c.busy = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
	}()

	ctx, span := tracer.StartSpan(ctx, "session.submit",
		trace.WithAttributes(tracer.IntAttr("chat.message_len", len(text))),
	)
	defer span.End()

	c.store.Append(domain.NewUserMessage(NewEntryID(), text))

	turn, err := c.backend.Chat(ctx, text)
	if err != nil {
		tracer.RecordError(span, err)
		c.logger.Warn("chat turn failed", "error", err)
		synthetic := domain.NewAssistantMessage(errorMessage(err))
		c.store.Append(synthetic)
		return []domain.Entry{synthetic}, nil
	}

	if c.dropEcho && len(turn) > 0 && turn[0].EchoesUser(text) {
		turn = turn[1:]
	}
	c.store.Append(turn...)

	span.SetAttributes(tracer.IntAttr("chat.entries", len(turn)))
	tracer.SetOK(span)
	c.logger.Debug("chat turn completed", "entries", len(turn))

	return turn, nil
}

// errorMessage maps a backend failure to the user-facing message text.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrTimeout):
		return msgTimeout
	case errors.Is(err, domain.ErrUnreachable):
		return msgUnreachable
	default:
		return msgServerError
	}
}
