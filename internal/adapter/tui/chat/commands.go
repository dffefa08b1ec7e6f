package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"genechat/internal/usecase/session"
)

// submitCmd runs the submission in a background goroutine with a cancellable
// context. gen identifies the request so stale responses from cancelled
// requests can be discarded.
func submitCmd(ctx context.Context, ctrl *session.Controller, text string, gen uint64) tea.Cmd {
	return func() tea.Msg {
		entries, err := ctrl.Submit(ctx, text)
		return TurnMsg{Entries: entries, Err: err, Gen: gen}
	}
}

// streamTickCmd returns a Cmd that fires a StreamTickMsg after the given delay.
// Used for simulated streaming (progressive rendering of complete responses).
func streamTickCmd(rate time.Duration) tea.Cmd {
	if rate <= 0 {
		rate = 16 * time.Millisecond
	}
	return tea.Tick(rate, func(_ time.Time) tea.Msg {
		return StreamTickMsg{}
	})
}
