package backend

import (
	"context"
	"errors"
	"testing"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genechat/internal/domain"
	"genechat/internal/infra/config"
)

// fakeBackend is a scripted ChatBackend for breaker tests.
type fakeBackend struct {
	entries []domain.Entry
	err     error
	calls   int
}

func (f *fakeBackend) Chat(ctx context.Context, message string) ([]domain.Entry, error) {
	f.calls++
	return f.entries, f.err
}

func TestCircuitBreakerPassesThrough(t *testing.T) {
	inner := &fakeBackend{entries: []domain.Entry{domain.NewAssistantMessage("hi")}}
	cb := NewCircuitBreakerBackend(inner, config.CircuitBreakerConfig{}, newTestLogger())

	entries, err := cb.Chat(context.Background(), "hello")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestCircuitBreakerOpensAfterFailures(t *testing.T) {
	inner := &fakeBackend{err: domain.ErrUnreachable}
	cb := NewCircuitBreakerBackend(inner, config.CircuitBreakerConfig{MaxFailures: 3}, newTestLogger())

	for i := 0; i < 3; i++ {
		_, err := cb.Chat(context.Background(), "hello")
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, cb.State())

	// Open circuit fails fast without reaching the backend.
	callsBefore := inner.calls
	_, err := cb.Chat(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnreachable))
	assert.Equal(t, callsBefore, inner.calls)
}

func TestCircuitBreakerStreamUnsupported(t *testing.T) {
	cb := NewCircuitBreakerBackend(&fakeBackend{}, config.CircuitBreakerConfig{}, newTestLogger())
	_, err := cb.ChatStream(context.Background(), "hello")
	require.Error(t, err)
}
