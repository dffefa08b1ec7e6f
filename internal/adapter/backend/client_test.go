package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genechat/internal/domain"
	"genechat/internal/infra/config"
)

func newTestLogger() *slog.Logger {
	return slog.Default()
}

func testBackendConfig(url string) config.BackendConfig {
	return config.BackendConfig{
		BaseURL:        url,
		RequestTimeout: 5 * time.Second,
		ConnTimeout:    2 * time.Second,
		ValidateTools:  true,
	}
}

func TestClientChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/py/chat", r.URL.Path)
		assert.Equal(t, "What is the weather in Boston?", r.URL.Query().Get("message"))

		fmt.Fprint(w, `{"conversation":[
			{"role":"user","type":"message","content":"What is the weather in Boston?"},
			{"role":"assistant","type":"tool_use","tool":"get_weather","id":"toolu_1","arguments":{"lat":42.36,"lon":-71.06}},
			{"role":"system","type":"tool_result","tool":"get_weather","id":"toolu_1","result":{"temperature":21.5,"unit":"celsius"}},
			{"role":"assistant","type":"message","content":"It is 21.5°C in Boston."}
		]}`)
	}))
	defer server.Close()

	client := NewClient(testBackendConfig(server.URL), newTestLogger())
	entries, err := client.Chat(context.Background(), "What is the weather in Boston?")
	require.NoError(t, err)
	require.Len(t, entries, 4)

	assert.True(t, entries[0].EchoesUser("What is the weather in Boston?"))
	assert.True(t, entries[1].IsToolUse())
	assert.Equal(t, domain.ToolWeather, entries[1].Tool)
	assert.True(t, entries[2].IsToolResult())
	assert.Equal(t, "toolu_1", entries[2].ID)
}

func TestClientChatServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(testBackendConfig(server.URL), newTestLogger())
	_, err := client.Chat(context.Background(), "hi")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBackendStatus))
}

func TestClientChatMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"conversation": not json`)
	}))
	defer server.Close()

	client := NewClient(testBackendConfig(server.URL), newTestLogger())
	_, err := client.Chat(context.Background(), "hi")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBackendPayload))
}

func TestClientChatTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		fmt.Fprint(w, `{"conversation":[]}`)
	}))
	defer server.Close()

	cfg := testBackendConfig(server.URL)
	cfg.RequestTimeout = 50 * time.Millisecond

	client := NewClient(cfg, newTestLogger())
	_, err := client.Chat(context.Background(), "hi")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTimeout))
}

func TestClientChatUnreachable(t *testing.T) {
	// A closed port: connection refused.
	client := NewClient(testBackendConfig("http://127.0.0.1:1"), newTestLogger())
	_, err := client.Chat(context.Background(), "hi")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnreachable))
}

func TestClientChatDemotesInvalidToolResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// temperature must be a number.
		fmt.Fprint(w, `{"conversation":[
			{"role":"system","type":"tool_result","tool":"get_weather","id":"t1","result":{"temperature":"warm"}}
		]}`)
	}))
	defer server.Close()

	client := NewClient(testBackendConfig(server.URL), newTestLogger())
	entries, err := client.Chat(context.Background(), "hi")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].Tool, "invalid payload should be demoted to the generic renderer")
	assert.NotEmpty(t, entries[0].Result, "payload itself must be preserved")
}
