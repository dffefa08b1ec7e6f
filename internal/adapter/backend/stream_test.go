package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genechat/internal/domain"
)

func TestStreamClientReassembly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/py/chat/stream", r.URL.Path)
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"type\":\"text\",\"text\":\"Checking \"}\n\n")
		fmt.Fprint(w, "data: {\"type\":\"text\",\"text\":\"the weather.\"}\n\n")
		fmt.Fprint(w, "data: {\"type\":\"tool-invocation\",\"state\":\"call\",\"tool\":\"get_weather\",\"id\":\"t1\"}\n\n")
		fmt.Fprint(w, "data: {\"type\":\"tool-invocation\",\"state\":\"result\",\"tool\":\"get_weather\",\"id\":\"t1\",\"result\":{\"temperature\":18.0,\"unit\":\"celsius\"}}\n\n")
		fmt.Fprint(w, "data: {\"type\":\"text\",\"text\":\"It is 18°C.\"}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client := NewStreamClient(testBackendConfig(server.URL), newTestLogger())
	entries, err := client.Chat(context.Background(), "weather?")
	require.NoError(t, err)

	// Accumulated text before the tool call, the tool_use/tool_result pair,
	// then the trailing text.
	require.Len(t, entries, 4)
	assert.Equal(t, "Checking the weather.", entries[0].Content)
	assert.True(t, entries[1].IsToolUse())
	assert.Equal(t, domain.ToolWeather, entries[1].Tool)
	assert.True(t, entries[2].IsToolResult())
	assert.Equal(t, "t1", entries[2].ID)
	assert.Equal(t, "It is 18°C.", entries[3].Content)
}

func TestStreamClientSkipsNonResultInvocations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: {\"type\":\"tool-invocation\",\"state\":\"call\",\"tool\":\"get_time\",\"id\":\"t1\"}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client := NewStreamClient(testBackendConfig(server.URL), newTestLogger())
	entries, err := client.Chat(context.Background(), "time?")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStreamClientDeltas(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: {\"type\":\"text\",\"text\":\"abc\"}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client := NewStreamClient(testBackendConfig(server.URL), newTestLogger())
	ch, err := client.ChatStream(context.Background(), "hi")
	require.NoError(t, err)

	var text string
	var entries int
	var done bool
	for ev := range ch {
		require.NoError(t, ev.Err)
		text += ev.Text
		if ev.Entry != nil {
			entries++
		}
		if ev.Done {
			done = true
		}
	}
	assert.Equal(t, "abc", text)
	assert.Equal(t, 1, entries, "accumulated text flushed as one assistant entry")
	assert.True(t, done)
}

func TestStreamClientServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewStreamClient(testBackendConfig(server.URL), newTestLogger())
	_, err := client.ChatStream(context.Background(), "hi")
	require.Error(t, err)
}
