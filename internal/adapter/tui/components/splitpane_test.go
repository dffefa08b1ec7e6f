package components

import (
	"testing"

	"genechat/internal/adapter/tui/theme"
)

func TestSplitPaneWidths(t *testing.T) {
	m := NewSplitPane(0.65)
	m.SetSize(120, 40)

	if m.LeftWidth() != 120 {
		t.Errorf("hidden pane: LeftWidth = %d, want full width", m.LeftWidth())
	}

	m.Toggle()
	if !m.Visible {
		t.Fatal("Toggle should show the right pane")
	}
	// Left + divider + right fills the terminal exactly.
	if got := m.LeftWidth() + 1 + m.RightWidth(); got != 120 {
		t.Errorf("width sum = %d, want 120", got)
	}
}

func TestSplitPaneRatioClamps(t *testing.T) {
	m := NewSplitPane(0.65)
	m.SetSize(120, 40)
	m.Toggle()

	for i := 0; i < 50; i++ {
		m.WidenLeft()
	}
	if m.Ratio > ratioMax {
		t.Errorf("Ratio = %v, want <= %v", m.Ratio, ratioMax)
	}
	for i := 0; i < 50; i++ {
		m.WidenRight()
	}
	if m.Ratio < ratioMin {
		t.Errorf("Ratio = %v, want >= %v", m.Ratio, ratioMin)
	}
}

func TestSplitPaneNarrowTerminalStaysSingle(t *testing.T) {
	m := NewSplitPane(0.65)
	m.SetSize(theme.MinSplitWidth-1, 40)

	m.Toggle()
	if m.Visible {
		t.Error("Toggle should refuse on a narrow terminal")
	}

	// Shrinking below the threshold hides an open pane.
	m.SetSize(theme.MinSplitWidth+20, 40)
	m.Toggle()
	if !m.Visible {
		t.Fatal("pane should open on a wide terminal")
	}
	m.SetSize(theme.MinSplitWidth-1, 40)
	if m.Visible {
		t.Error("pane should auto-hide when the terminal narrows")
	}
}
