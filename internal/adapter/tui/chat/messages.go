// Package chat implements the Bubble Tea TUI for genechat.
package chat

import "genechat/internal/domain"

// TurnMsg carries the entries a submission produced. Gen identifies the
// request generation so stale responses from cancelled requests can be
// discarded. Err is set only for submissions rejected before any network
// call (empty input, busy); backend failures arrive as synthetic entries.
type TurnMsg struct {
	Entries []domain.Entry
	Err     error
	Gen     uint64
}

// QuitMsg signals the program to exit.
type QuitMsg struct{}

// StreamTickMsg drives simulated streaming (progressive rendering).
type StreamTickMsg struct{}
