package chat

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
)

// Program wraps a Bubble Tea program running the chat model.
type Program struct {
	logger  *slog.Logger
	program *tea.Program
}

// NewProgram creates the program with alt-screen and mouse tracking enabled.
func NewProgram(model ChatModel, logger *slog.Logger) *Program {
	return &Program{
		logger: logger,
		program: tea.NewProgram(
			model,
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
		),
	}
}

// Run blocks until the program exits. Context cancellation (e.g. SIGINT
// delivered via signal.NotifyContext) quits the program cleanly.
func (p *Program) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			p.program.Send(QuitMsg{})
		case <-done:
		}
	}()

	_, err := p.program.Run()
	if err != nil {
		p.logger.Error("tui exited with error", "error", err)
	}
	return err
}
