package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"genechat/internal/adapter/render"
	"genechat/internal/adapter/tui/theme"
)

// toolCall is a rendered tool result card plus the time it arrived.
type toolCall struct {
	Card       render.Card
	ReceivedAt time.Time
}

const maxToolCalls = 100

// ToolOutputModel displays recent tool result cards in a scrollable pane.
type ToolOutputModel struct {
	Viewport viewport.Model
	calls    []toolCall
	ready    bool
	width    int
	height   int
}

// NewToolOutput creates a tool output pane.
func NewToolOutput() ToolOutputModel {
	return ToolOutputModel{}
}

// SetSize sets the pane dimensions.
func (m *ToolOutputModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	if !m.ready {
		m.Viewport = viewport.New(w, h)
		m.Viewport.MouseWheelEnabled = true
		m.ready = true
	} else {
		m.Viewport.Width = w
		m.Viewport.Height = h
	}
	m.refreshContent()
}

// AddCard appends a tool result card to the pane.
func (m *ToolOutputModel) AddCard(card render.Card) {
	m.calls = append(m.calls, toolCall{Card: card, ReceivedAt: time.Now()})
	// Ring buffer: drop oldest entries when exceeding max.
	if len(m.calls) > maxToolCalls {
		m.calls = m.calls[len(m.calls)-maxToolCalls:]
	}
	m.refreshContent()
	m.Viewport.GotoBottom()
}

// FullResult returns the tool name and full detail of the card at index i.
func (m *ToolOutputModel) FullResult(i int) (name, detail string, ok bool) {
	if i < 0 || i >= len(m.calls) {
		return "", "", false
	}
	c := m.calls[i].Card
	return c.Tool, c.Detail, true
}

// LastIdx returns the index of the most recent card, or -1.
func (m *ToolOutputModel) LastIdx() int {
	return len(m.calls) - 1
}

// Len returns the number of cards in the pane.
func (m *ToolOutputModel) Len() int {
	return len(m.calls)
}

// Clear removes all cards.
func (m *ToolOutputModel) Clear() {
	m.calls = nil
	m.refreshContent()
}

// Update handles viewport scrolling.
func (m ToolOutputModel) Update(msg tea.Msg) (ToolOutputModel, tea.Cmd) {
	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	return m, cmd
}

// View renders the tool output pane.
func (m ToolOutputModel) View() string {
	if !m.ready {
		return ""
	}

	header := theme.Bold.Render(" Tool Results")
	return header + "\n" + m.Viewport.View()
}

func (m *ToolOutputModel) refreshContent() {
	if !m.ready {
		return
	}

	if len(m.calls) == 0 {
		m.Viewport.SetContent(theme.TextMuted.Render("  No tool calls yet"))
		return
	}

	contentWidth := m.width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}

	var sb strings.Builder
	for i, call := range m.calls {
		if i > 0 {
			sb.WriteString("\n" + Divider(m.width-2) + "\n")
		}

		icon := theme.TextSuccess.Render(theme.SymbolSuccess)
		sb.WriteString(fmt.Sprintf("  %s %s %s\n",
			icon,
			theme.Bold.Render(call.Card.Tool),
			theme.Timestamp.Render(RelativeTime(call.ReceivedAt)),
		))
		sb.WriteString("  " + call.Card.Summary + "\n")

		if call.Card.Detail != "" {
			detail := call.Card.Detail
			// Truncate long details.
			maxLines := 10
			lines := strings.Split(detail, "\n")
			truncated := len(lines) > maxLines
			if truncated {
				lines = lines[:maxLines]
			}
			for _, line := range lines {
				if len(line) > contentWidth {
					line = truncateLine(line, contentWidth-1) + theme.SymbolEllipsis
				}
				sb.WriteString("  " + line + "\n")
			}
			if truncated {
				sb.WriteString(fmt.Sprintf("  %s (%d more lines)\n",
					theme.SymbolEllipsis, len(strings.Split(detail, "\n"))-maxLines))
				sb.WriteString(theme.Dim.Render("  (press Enter to view full output)") + "\n")
			}
		}
	}

	m.Viewport.SetContent(sb.String())
}
