package backend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"genechat/internal/domain"
	"genechat/internal/infra/config"
)

// Default circuit breaker settings.
const (
	defaultCBMaxFailures uint32        = 5
	defaultCBTimeout     time.Duration = 30 * time.Second
	defaultCBInterval    time.Duration = 60 * time.Second
)

// CircuitBreakerBackend wraps a ChatBackend with circuit breaker protection.
// When the backend fails repeatedly, the circuit opens and subsequent calls
// fail fast instead of each waiting out the full request timeout.
type CircuitBreakerBackend struct {
	inner   domain.ChatBackend
	breaker *gobreaker.CircuitBreaker[[]domain.Entry]
	logger  *slog.Logger
}

// NewCircuitBreakerBackend wraps inner with a circuit breaker.
// Zero-valued cfg fields fall back to sensible defaults.
func NewCircuitBreakerBackend(inner domain.ChatBackend, cfg config.CircuitBreakerConfig, logger *slog.Logger) *CircuitBreakerBackend {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = defaultCBMaxFailures
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultCBTimeout
	}
	interval := cfg.Interval
	if interval == 0 {
		interval = defaultCBInterval
	}

	cb := gobreaker.NewCircuitBreaker[[]domain.Entry](gobreaker.Settings{
		Name:        "backend:chat",
		MaxRequests: 1, // allow 1 trial request in half-open state
		Interval:    interval,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
		IsSuccessful: func(err error) bool {
			return err == nil
		},
	})

	return &CircuitBreakerBackend{
		inner:   inner,
		breaker: cb,
		logger:  logger,
	}
}

// Chat implements domain.ChatBackend. Calls are routed through the breaker.
func (b *CircuitBreakerBackend) Chat(ctx context.Context, message string) ([]domain.Entry, error) {
	entries, err := b.breaker.Execute(func() ([]domain.Entry, error) {
		return b.inner.Chat(ctx, message)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, fmt.Errorf("%w: circuit open", domain.ErrUnreachable)
		}
		return nil, err
	}
	return entries, nil
}

// ChatStream implements domain.StreamingChatBackend if the inner backend
// supports it. The breaker protects the initial connection; errors arriving
// on the stream after connection do not trip it.
func (b *CircuitBreakerBackend) ChatStream(ctx context.Context, message string) (<-chan domain.StreamEvent, error) {
	sb, ok := b.inner.(domain.StreamingChatBackend)
	if !ok {
		return nil, fmt.Errorf("backend does not support streaming")
	}

	var ch <-chan domain.StreamEvent
	_, err := b.breaker.Execute(func() ([]domain.Entry, error) {
		var streamErr error
		ch, streamErr = sb.ChatStream(ctx, message)
		return nil, streamErr
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, fmt.Errorf("%w: circuit open", domain.ErrUnreachable)
		}
		return nil, err
	}
	return ch, nil
}

// State returns the current circuit breaker state for monitoring.
func (b *CircuitBreakerBackend) State() gobreaker.State {
	return b.breaker.State()
}

// Compile-time interface check.
var _ domain.ChatBackend = (*CircuitBreakerBackend)(nil)
