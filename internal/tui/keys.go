package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vytor/flashstudy/internal/study"
)

// keyEvent translates a terminal key press into the controller's key names.
// It reports false for keys the controller has no name for.
func keyEvent(msg tea.KeyMsg) (study.KeyEvent, bool) {
	ev := study.KeyEvent{Alt: msg.Alt}

	switch msg.Type {
	case tea.KeySpace:
		ev.Key = study.KeySpace
	case tea.KeyLeft:
		ev.Key = study.KeyArrowLeft
	case tea.KeyRight:
		ev.Key = study.KeyArrowRight
	case tea.KeyEsc:
		ev.Key = study.KeyEscape
	case tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return ev, false
		}
		ev.Key = string(msg.Runes)
	default:
		name := msg.String()
		if !strings.HasPrefix(name, "ctrl+") {
			return ev, false
		}
		ev.Ctrl = true
		ev.Key = strings.TrimPrefix(name, "ctrl+")
	}
	return ev, true
}
