package domain

import (
	"encoding/json"
	"time"
)

// Role constants for transcript entries.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Entry kinds. The wire field is "type" to match the backend contract.
const (
	KindMessage    = "message"
	KindToolUse    = "tool_use"
	KindToolResult = "tool_result"
)

// Entry is a single unit in the conversation transcript: a plain message,
// a tool invocation, or a tool result. Which fields are meaningful is
// controlled by Kind. Entries are immutable once appended to a store.
type Entry struct {
	Role    string `json:"role"`
	Kind    string `json:"type"`
	Content string `json:"content,omitempty"`

	// Tool and ID are set for tool_use and tool_result entries. ID
	// correlates a tool_use with its later tool_result.
	Tool string `json:"tool,omitempty"`
	ID   string `json:"id,omitempty"`

	// Arguments is the tool-specific input payload (tool_use only).
	Arguments json.RawMessage `json:"arguments,omitempty"`
	// Result is the tool-specific output payload (tool_result only).
	Result json.RawMessage `json:"result,omitempty"`

	// Timestamp is assigned client-side on append; the backend does not
	// send one.
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// IsMessage reports whether the entry carries free-form text.
func (e Entry) IsMessage() bool { return e.Kind == KindMessage }

// IsToolUse reports whether the entry is a tool invocation.
func (e Entry) IsToolUse() bool { return e.Kind == KindToolUse }

// IsToolResult reports whether the entry is a tool result.
func (e Entry) IsToolResult() bool { return e.Kind == KindToolResult }

// NewUserMessage builds a user/message entry with the given correlation id.
func NewUserMessage(id, content string) Entry {
	return Entry{
		Role:      RoleUser,
		Kind:      KindMessage,
		ID:        id,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewAssistantMessage builds an assistant/message entry. Used both for
// backend text and for synthetic error messages appended on failed turns.
func NewAssistantMessage(content string) Entry {
	return Entry{
		Role:      RoleAssistant,
		Kind:      KindMessage,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// EchoesUser reports whether the entry duplicates a just-sent user message.
// Backends conventionally include the user's own message as the first
// element of a turn; the store drops it when this matches.
func (e Entry) EchoesUser(content string) bool {
	return e.Role == RoleUser && e.Kind == KindMessage && e.Content == content
}

// Turn is the ordered list of entries the backend produced for one
// submission: assistant text interleaved with zero or more
// tool_use/tool_result pairs, possibly spanning multiple tool round-trips.
type Turn struct {
	Entries []Entry `json:"conversation"`
}
