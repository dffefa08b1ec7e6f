package domain

import "context"

// ChatBackend is the interface to the external chat endpoint. The backend
// owns the model loop and all tool execution; the client only sends the
// user's text and receives the completed turn.
type ChatBackend interface {
	// Chat sends one user message and returns the full assistant turn,
	// ordered as the backend produced it.
	Chat(ctx context.Context, message string) ([]Entry, error)
}

// StreamEvent is one incremental part of a streamed assistant turn:
// either a fragment of message text or a completed tool invocation.
type StreamEvent struct {
	// Text is a fragment of assistant message text. Fragments concatenate
	// in order into the turn's message entries.
	Text string `json:"text,omitempty"`
	// Entry is a complete tool_use or tool_result entry delivered
	// mid-stream.
	Entry *Entry `json:"entry,omitempty"`
	// Done marks the end of the turn.
	Done bool `json:"done,omitempty"`
	// Err carries a mid-stream failure. The stream closes after it.
	Err error `json:"-"`
}

// StreamingChatBackend extends ChatBackend with the streaming transport
// variant: incremental text and tool-invocation parts on one channel.
type StreamingChatBackend interface {
	ChatBackend
	// ChatStream sends one user message and returns a channel of
	// incremental events. The channel closes when the turn ends or ctx
	// is cancelled.
	ChatStream(ctx context.Context, message string) (<-chan StreamEvent, error)
}
