package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestModalHalfPageScroll(t *testing.T) {
	m := NewModal()
	m.SetSize(80, 10)
	m.Open("clinvar_lookup", strings.Repeat("line\n", 200))

	if m.Viewport.YOffset != 0 {
		t.Fatalf("YOffset = %d at open", m.Viewport.YOffset)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	down := m.Viewport.YOffset
	if down == 0 {
		t.Fatal("ctrl+d should scroll down")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	if m.Viewport.YOffset != 0 {
		t.Errorf("ctrl+u should return to top, YOffset = %d", m.Viewport.YOffset)
	}
}

func TestModalCloseKeys(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyEsc},
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
	} {
		m := NewModal()
		m.SetSize(80, 24)
		m.Open("get_pubmed_studies", "detail")
		m, _ = m.Update(key)
		if m.Visible {
			t.Errorf("key %v should close the modal", key)
		}
	}
}
