package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"genechat/internal/adapter/render"
	"genechat/internal/adapter/tui/components"
	"genechat/internal/adapter/tui/theme"
	"genechat/internal/adapter/tui/uxerror"
	"genechat/internal/domain"
	"genechat/internal/usecase/session"
)

// ChatModelDeps are dependencies injected into the chat model.
type ChatModelDeps struct {
	Controller  *session.Controller
	Logger      *slog.Logger
	BackendName string // backend host shown in the status bar
	Stream      StreamConfig
	Markdown    bool
}

// ChatModel is the root Bubble Tea model for the chat TUI.
type ChatModel struct {
	deps ChatModelDeps

	// Sub-models
	chatView  components.ChatViewModel
	input     components.InputAreaModel
	statusBar components.StatusBarModel
	toolPane  components.ToolOutputModel
	split     components.SplitPaneModel
	spinner   spinner.Model
	searchBar components.SearchBarModel
	modal     components.ModalModel

	// State
	waiting   bool   // true while a submission is in flight
	streaming bool   // true during simulated streaming
	streamBuf []rune // current message to stream (runes for Unicode safety)
	streamPos int    // current rune position in streamBuf
	width     int
	height    int
	quitting  bool
	vimMode   bool // true when input is blurred and vim keys are active

	// Streaming config.
	streamCfg StreamConfig

	// Request lifecycle: gen is incremented on every new request.
	// Stale TurnMsg with an older gen are discarded.
	gen      uint64
	cancelFn context.CancelFunc // cancels the in-flight submission goroutine

	// Turn presentation: queue holds the entries not yet shown, pendingArgs
	// maps tool_use ids to their arguments so result cards can use them.
	entryQueue  []domain.Entry
	pendingArgs map[string]json.RawMessage
}

// NewChatModel creates the root chat model.
func NewChatModel(deps ChatModelDeps) ChatModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.ColorInfo)

	sb := components.NewStatusBar()
	sb.AppName = theme.SymbolAssistant
	sb.Backend = deps.BackendName
	sb.Hints = defaultHints()

	// Configure chat view with ring buffer.
	chatView := components.NewChatView()
	chatView.SetMaxMessages(1000)
	chatView.Messages.Markdown = deps.Markdown

	// Set up input area with autocomplete for slash commands.
	inputArea := components.NewInputArea()
	inputArea.Autocomplete = components.NewAutocomplete([]components.CommandDef{
		{Name: "/help", Description: "Show available commands"},
		{Name: "/clear", Description: "Clear conversation"},
		{Name: "/quit", Aliases: []string{"/exit"}, Description: "Exit genechat"},
		{Name: "/cancel", Description: "Cancel active request"},
		{Name: "/speed", Description: "Cycle streaming speed"},
		{Name: "/tools", Description: "Toggle the tool results pane"},
	})

	streamCfg := deps.Stream
	if streamCfg.TickRate == 0 && streamCfg.Speed != StreamInstant {
		streamCfg = NewStreamConfig(0, 0)
	}

	return ChatModel{
		deps:        deps,
		chatView:    chatView,
		input:       inputArea,
		statusBar:   sb,
		toolPane:    components.NewToolOutput(),
		split:       components.NewSplitPane(0.65),
		spinner:     s,
		searchBar:   components.NewSearchBar(),
		modal:       components.NewModal(),
		streamCfg:   streamCfg,
		pendingArgs: make(map[string]json.RawMessage),
	}
}

// Init initializes sub-models.
func (m ChatModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
	)
}

// Update handles all incoming messages.
func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		if m.modal.Visible {
			m.modal.SetSize(m.width, m.height)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case components.InputSubmitMsg:
		return m.handleSubmit(msg.Value)

	case TurnMsg:
		// Discard responses from a stale (cancelled) request.
		if msg.Gen != m.gen {
			return m, nil
		}
		return m.handleTurn(msg)

	case StreamTickMsg:
		return m.handleStreamTick()

	case QuitMsg:
		m.quitting = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	// Update sub-models (filter mouse events from reaching the input).
	if !m.waiting {
		if _, isMouse := msg.(tea.MouseMsg); !isMouse {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	var cmd tea.Cmd
	m.chatView, cmd = m.chatView.Update(msg)
	cmds = append(cmds, cmd)

	if m.split.Visible && m.split.Focused == components.PaneRight {
		m.toolPane, cmd = m.toolPane.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View renders the entire chat UI.
func (m ChatModel) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}
	if m.width == 0 {
		return "  Initializing..."
	}

	// If modal is open, render it as a full overlay.
	if m.modal.Visible {
		return m.modal.View()
	}

	header := m.headerView()

	// Main content area.
	var mainContent string
	chatContent := m.chatView.View()

	if m.split.Visible {
		toolContent := m.toolPane.View()
		mainContent = m.split.Render(chatContent, toolContent)
	} else {
		mainContent = chatContent
	}

	// Search bar (shown below content when active).
	searchView := m.searchBar.View()

	// Input area with optional spinner.
	inputView := m.input.View()
	if m.waiting {
		spinnerStr := m.spinner.View() + " " + m.statusBar.Extra
		inputView = lipgloss.NewStyle().Faint(true).Render("> waiting for response...") +
			"\n" + spinnerStr
	}

	// Status bar.
	statusView := m.statusBar.View()

	// Compose vertically.
	parts := []string{header, mainContent}
	if searchView != "" {
		parts = append(parts, searchView)
	}
	parts = append(parts, components.Divider(m.width), inputView, statusView)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// headerView renders the one-line title bar.
func (m ChatModel) headerView() string {
	title := theme.AssistantLabel.Render(" " + theme.SymbolAssistant)
	sub := theme.TextMuted.Render(" genetic variant assistant")
	return title + sub
}

// layout recalculates sizes for all sub-models.
func (m *ChatModel) layout() {
	headerH := 1
	inputH := 3
	statusH := 1
	dividerH := 1
	searchBarH := 0
	if m.searchBar.Mode != components.SearchInactive {
		searchBarH = 1
	}
	contentH := m.height - headerH - inputH - statusH - dividerH - searchBarH
	if contentH < 5 {
		contentH = 5
	}

	m.statusBar.SetWidth(m.width)
	m.split.SetSize(m.width, contentH)

	leftW := m.split.LeftWidth()
	m.chatView.SetSize(leftW, contentH)
	m.input.SetWidth(m.width)

	if m.split.Visible {
		rightW := m.split.RightWidth()
		m.toolPane.SetSize(rightW, contentH-1)
	}
}

// isSGRMouseSequence detects SGR mouse escape sequences that may leak
// through as key input (e.g. "<65;38;21M"). These are emitted when
// mouse cell motion tracking is enabled and some terminals pass them
// as key events instead of tea.MouseMsg.
func isSGRMouseSequence(s string) bool {
	if len(s) < 5 || s[0] != '<' {
		return false
	}
	last := s[len(s)-1]
	if last != 'M' && last != 'm' {
		return false
	}
	for _, r := range s[1 : len(s)-1] {
		if r != ';' && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// isMouseEscapeLeak detects mouse escape sequences that leaked through
// as key input instead of tea.MouseMsg. Covers SGR, X11 basic, and
// URXVT formats that appear during rapid trackpad scrolling.
func isMouseEscapeLeak(s string) bool {
	// SGR format: <digits;digits;digitsM/m
	if isSGRMouseSequence(s) {
		return true
	}
	// X11 basic mouse format: [M or [m followed by coordinate bytes.
	if len(s) >= 2 && s[0] == '[' && (s[1] == 'M' || s[1] == 'm') {
		return true
	}
	// URXVT format: [digits;digits;digitsM
	if len(s) >= 5 && s[0] == '[' && s[len(s)-1] == 'M' {
		allValid := true
		for _, r := range s[1 : len(s)-1] {
			if r != ';' && (r < '0' || r > '9') {
				allValid = false
				break
			}
		}
		if allValid {
			return true
		}
	}
	return false
}

// handleKey processes keyboard input.
func (m ChatModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Filter out mouse escape sequences that leaked through as key events.
	if isMouseEscapeLeak(msg.String()) {
		return m, nil
	}

	// If modal is open, route all keys to it.
	if m.modal.Visible {
		var cmd tea.Cmd
		m.modal, cmd = m.modal.Update(msg)
		return m, cmd
	}

	// If search input is active, route keys to search bar.
	if m.searchBar.Mode == components.SearchInput {
		var cmd tea.Cmd
		m.searchBar, cmd = m.searchBar.Update(msg)
		if m.searchBar.Mode == components.SearchActive {
			// Search on raw message content (not rendered ANSI output).
			lines := m.chatView.RawLines()
			m.searchBar.Search(lines)
		}
		return m, cmd
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.waiting {
			m.cancelRequest("Request cancelled.")
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case tea.KeyCtrlT:
		m.split.Toggle()
		m.layout()
		return m, nil

	case tea.KeyTab:
		if m.split.Visible {
			m.split.SwitchFocus()
			if m.split.Focused == components.PaneRight {
				m.statusBar.Hints = []components.KeyHint{
					{Key: "Tab", Desc: "Switch"},
					{Key: "j/k", Desc: "Scroll"},
					{Key: "Ctrl+T", Desc: "Close"},
				}
			} else {
				m.statusBar.Hints = defaultHints()
			}
		}
		return m, nil

	case tea.KeyCtrlL:
		return m.handleSlashCommand("/clear", nil)

	case tea.KeyEsc:
		// If search is active, close it.
		if m.searchBar.Mode != components.SearchInactive {
			m.searchBar.Deactivate()
			return m, nil
		}
		// Enter vim mode (blur input).
		if !m.vimMode && !m.waiting {
			m.vimMode = true
			m.input.SetEnabled(false)
			m.statusBar.Hints = vimHints()
			return m, nil
		}

	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.chatView, cmd = m.chatView.Update(msg)
		return m, cmd
	}

	// Vim mode: j/k scroll, / search, n/N navigate, i to exit, Enter to
	// expand/collapse the latest tool card.
	if m.vimMode {
		switch msg.String() {
		case "j", "down":
			m.chatView.Viewport.LineDown(3)
			return m, nil
		case "k", "up":
			m.chatView.Viewport.LineUp(3)
			return m, nil
		case "/":
			m.searchBar.SetWidth(m.width)
			m.searchBar.Activate()
			return m, nil
		case "<":
			if m.split.Visible {
				m.split.WidenRight()
				m.layout()
			}
			return m, nil
		case ">":
			if m.split.Visible {
				m.split.WidenLeft()
				m.layout()
			}
			return m, nil
		case "n":
			if m.searchBar.Mode == components.SearchActive {
				if line := m.searchBar.NextMatch(); line >= 0 {
					m.chatView.Viewport.SetYOffset(line)
				}
			}
			return m, nil
		case "N":
			if m.searchBar.Mode == components.SearchActive {
				if line := m.searchBar.PrevMatch(); line >= 0 {
					m.chatView.Viewport.SetYOffset(line)
				}
			}
			return m, nil
		case "enter":
			// When the tool pane is focused, open the last result in a modal.
			if m.split.Visible && m.split.Focused == components.PaneRight {
				if idx := m.toolPane.LastIdx(); idx >= 0 {
					if name, detail, ok := m.toolPane.FullResult(idx); ok {
						m.modal.SetSize(m.width, m.height)
						m.modal.Open(name, detail)
					}
				}
				return m, nil
			}
			// Otherwise toggle the latest tool card inline.
			if idx := m.chatView.LastCardIdx(); idx >= 0 {
				m.chatView.ToggleCard(idx)
			}
			return m, nil
		case "i":
			m.vimMode = false
			m.input.SetEnabled(true)
			m.statusBar.Hints = defaultHints()
			return m, nil
		case "g":
			m.chatView.Viewport.GotoTop()
			return m, nil
		case "G":
			m.chatView.Viewport.GotoBottom()
			return m, nil
		}
		return m, nil
	}

	// Forward to input area.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func vimHints() []components.KeyHint {
	return []components.KeyHint{
		{Key: "j/k", Desc: "Scroll"},
		{Key: "/", Desc: "Search"},
		{Key: "Enter", Desc: "Expand card"},
		{Key: "g/G", Desc: "Top/bottom"},
		{Key: "i", Desc: "Input"},
	}
}

// handleSubmit processes user input submission.
func (m ChatModel) handleSubmit(value string) (tea.Model, tea.Cmd) {
	// Check for slash commands.
	if cmd, args, ok := components.ParseSlashCommand(value); ok {
		return m.handleSlashCommand(cmd, args)
	}

	// Cancel any in-flight request before starting a new one.
	if m.cancelFn != nil {
		m.cancelFn()
	}

	// Add user message to chat.
	m.chatView.AddMessage(components.ChatMessage{
		Role:      components.RoleUser,
		Content:   value,
		Timestamp: time.Now(),
	})

	// Reset turn presentation state for the new request.
	m.entryQueue = nil
	m.pendingArgs = make(map[string]json.RawMessage)

	// Bump generation so stale responses are discarded.
	m.gen++
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelFn = cancel

	// Disable input, enable vim mode, and show spinner.
	m.waiting = true
	m.streaming = false
	m.vimMode = true
	m.input.SetEnabled(false)
	m.statusBar.Extra = theme.SymbolSpinner + " Thinking..."

	return m, submitCmd(ctx, m.deps.Controller, value, m.gen)
}

// handleTurn processes a completed submission.
func (m ChatModel) handleTurn(msg TurnMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		friendly := uxerror.Humanize(msg.Err)
		m.chatView.AddMessage(components.ChatMessage{
			Role:    components.RoleError,
			Content: friendly.Render(),
		})
		m.finishTurn()
		return m, nil
	}

	m.entryQueue = msg.Entries
	return m.presentNext()
}

// presentNext shows queued entries until one needs streaming or the queue
// drains. Tool invocations and result cards appear immediately; assistant
// text is progressively rendered unless the speed is instant.
func (m ChatModel) presentNext() (tea.Model, tea.Cmd) {
	for len(m.entryQueue) > 0 {
		e := m.entryQueue[0]
		m.entryQueue = m.entryQueue[1:]

		switch {
		case e.IsToolUse():
			m.pendingArgs[e.ID] = e.Arguments
			m.statusBar.Extra = theme.SymbolSpinner + " Calling " + e.Tool + "..."

		case e.IsToolResult():
			card := render.Result(e, m.pendingArgs[e.ID])
			m.chatView.AddMessage(components.ChatMessage{
				Role:      components.RoleTool,
				Timestamp: e.Timestamp,
				Card:      &card,
			})
			m.toolPane.AddCard(card)

		case e.IsMessage():
			if m.streamCfg.Speed == StreamInstant {
				m.chatView.AddMessage(components.ChatMessage{
					Role:      components.RoleAssistant,
					Content:   e.Content,
					Timestamp: e.Timestamp,
				})
				continue
			}
			// Start simulated streaming using runes for Unicode safety.
			m.chatView.AddMessage(components.ChatMessage{
				Role:      components.RoleAssistant,
				Timestamp: e.Timestamp,
			})
			m.streamBuf = []rune(e.Content)
			m.streamPos = 0
			m.streaming = true
			m.statusBar.Extra = theme.SymbolSpinner + " Thinking..."
			return m, streamTickCmd(m.streamCfg.TickRate)
		}
	}

	m.finishTurn()
	return m, nil
}

// handleStreamTick progressively renders the current assistant message.
func (m ChatModel) handleStreamTick() (tea.Model, tea.Cmd) {
	if !m.streaming {
		return m, nil
	}

	// Advance by a chunk of runes (not bytes) for Unicode safety.
	end := m.streamPos + m.streamCfg.ChunkSize
	if end >= len(m.streamBuf) {
		end = len(m.streamBuf)
	}

	m.streamPos = end
	m.chatView.UpdateLastMessage(string(m.streamBuf[:m.streamPos]))

	if m.streamPos >= len(m.streamBuf) {
		// This message is done; move on to the rest of the turn.
		m.streaming = false
		return m.presentNext()
	}

	return m, streamTickCmd(m.streamCfg.TickRate)
}

// finishTurn re-enables input once the whole turn has been presented.
func (m *ChatModel) finishTurn() {
	m.streaming = false
	m.waiting = false
	m.vimMode = false
	m.input.SetEnabled(true)
	m.statusBar.Extra = ""
	m.statusBar.Hints = defaultHints()
}

// handleSlashCommand processes a slash command.
func (m ChatModel) handleSlashCommand(cmd string, _ []string) (tea.Model, tea.Cmd) {
	switch cmd {
	case "/help":
		m.chatView.AddMessage(components.ChatMessage{
			Role: components.RoleSystem,
			Content: `Available commands:
  /help      - Show this help
  /clear     - Clear conversation
  /quit      - Exit genechat
  /cancel    - Cancel active request
  /speed     - Cycle streaming speed (normal/fast/instant)
  /tools     - Toggle the tool results pane

Keybindings:
  Enter      - Send message
  Alt+Enter  - New line
  Ctrl+T     - Toggle tool results pane
  Tab        - Switch pane focus
  Ctrl+L     - Clear conversation
  Ctrl+C     - Cancel/Quit
  Esc        - Browse mode (j/k scroll, Enter expands cards)
  < / >      - Resize tool pane (browse mode)
  PgUp/PgDn  - Scroll chat`,
		})
		return m, nil

	case "/quit", "/exit":
		m.quitting = true
		return m, tea.Quit

	case "/clear":
		m.chatView.Clear()
		m.toolPane.Clear()
		m.deps.Controller.Store().Clear()
		m.chatView.AddMessage(components.ChatMessage{
			Role:    components.RoleSystem,
			Content: theme.SymbolSuccess + " Conversation cleared.",
		})
		return m, nil

	case "/cancel":
		if m.waiting {
			m.cancelRequest("Request cancelled.")
		} else {
			m.chatView.AddMessage(components.ChatMessage{
				Role:    components.RoleSystem,
				Content: "No active request to cancel.",
			})
		}
		return m, nil

	case "/tools":
		m.split.Toggle()
		m.layout()
		return m, nil

	case "/speed":
		newSpeed := CycleStreamSpeed(m.streamCfg.Speed)
		m.streamCfg = m.streamCfg.ForSpeed(newSpeed)
		m.chatView.AddMessage(components.ChatMessage{
			Role:    components.RoleSystem,
			Content: fmt.Sprintf("Streaming speed: %s", newSpeed),
		})
		return m, nil

	default:
		m.chatView.AddMessage(components.ChatMessage{
			Role:    components.RoleSystem,
			Content: fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd),
		})
		return m, nil
	}
}

// cancelRequest cancels the in-flight submission goroutine, bumps the
// generation counter so any stale responses are discarded, and resets the
// UI state.
func (m *ChatModel) cancelRequest(reason string) {
	if m.cancelFn != nil {
		m.cancelFn()
		m.cancelFn = nil
	}
	m.gen++ // ensure stale TurnMsg are ignored
	m.waiting = false
	m.streaming = false
	m.vimMode = false
	m.input.SetEnabled(true)
	m.statusBar.Extra = ""
	m.statusBar.Hints = defaultHints()
	m.entryQueue = nil
	m.pendingArgs = make(map[string]json.RawMessage)
	m.chatView.AddMessage(components.ChatMessage{
		Role:    components.RoleSystem,
		Content: reason,
	})
}

func defaultHints() []components.KeyHint {
	return []components.KeyHint{
		{Key: "Enter", Desc: "Send"},
		{Key: "Alt+Enter", Desc: "Newline"},
		{Key: "Ctrl+T", Desc: "Tools"},
		{Key: "?", Desc: "/help"},
		{Key: "Ctrl+C", Desc: "Quit"},
	}
}

// SeedTranscript loads existing entries (e.g. a demo transcript) into the
// view before the program starts.
func (m *ChatModel) SeedTranscript(entries []domain.Entry) {
	args := make(map[string]json.RawMessage)
	for _, e := range entries {
		switch {
		case e.IsToolUse():
			args[e.ID] = e.Arguments
		case e.IsToolResult():
			card := render.Result(e, args[e.ID])
			m.chatView.AddMessage(components.ChatMessage{
				Role:      components.RoleTool,
				Timestamp: e.Timestamp,
				Card:      &card,
			})
			m.toolPane.AddCard(card)
		case e.Role == domain.RoleUser:
			m.chatView.AddMessage(components.ChatMessage{
				Role:      components.RoleUser,
				Content:   e.Content,
				Timestamp: e.Timestamp,
			})
		default:
			m.chatView.AddMessage(components.ChatMessage{
				Role:      components.RoleAssistant,
				Content:   e.Content,
				Timestamp: e.Timestamp,
			})
		}
	}
}
