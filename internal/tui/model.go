package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vytor/flashstudy/internal/models"
	"github.com/vytor/flashstudy/internal/study"
)

const (
	maxBarWidth  = 60
	minCardWidth = 30
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardStyle  = lipgloss.NewStyle().
			Padding(1, 3).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A")).
			Align(lipgloss.Center)
	backStyle = cardStyle.
			BorderForeground(lipgloss.Color("#C89A3A"))
	fadingStyle = cardStyle.
			Foreground(lipgloss.Color("#4A4A4A"))
	knownStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	notKnownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	summaryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	modalStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

var helpLines = []string{
	"space   flip card",
	"1       not known (study mode)",
	"2       known (study mode)",
	"← →     previous / next (regular mode)",
	"s       shuffle and restart",
	"m       switch study / regular mode",
	"f       finish now (study mode)",
	"?       this help",
	"q       exit",
	"esc     close dialogs",
}

type redrawMsg struct{}

// Model is the bubbletea program for one study session.
type Model struct {
	ctrl   *study.Controller
	screen *Screen
	bar    progress.Model
	title  string
	width  int
}

// NewModel wraps a controller whose view and navigator are screen.
func NewModel(ctrl *study.Controller, screen *Screen, title string) *Model {
	return &Model{
		ctrl:   ctrl,
		screen: screen,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		title:  title,
	}
}

// Attach makes screen changes from timers and workers trigger a redraw of p.
func (m *Model) Attach(p *tea.Program) {
	m.screen.OnChange(func() {
		go p.Send(redrawMsg{})
	})
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = min(maxBarWidth, max(10, msg.Width-4))
		return m, nil
	case redrawMsg:
		return m, m.quitIfExited()
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if ev, ok := keyEvent(msg); ok && m.ctrl.HandleKey(ev) {
			return m, m.quitIfExited()
		}
		m.handleCommandKey(msg)
		return m, m.quitIfExited()
	}
	return m, nil
}

// handleCommandKey covers the actions that have buttons but no shortcut in
// the controller's key map.
func (m *Model) handleCommandKey(msg tea.KeyMsg) {
	if msg.Alt {
		return
	}
	state := m.ctrl.State()

	switch msg.String() {
	case "s":
		m.ctrl.Shuffle()
	case "m":
		next := models.ModeStudy
		if state.Mode == models.ModeStudy {
			next = models.ModeRegular
		}
		m.ctrl.ToggleMode(next)
	case "f":
		if state.Mode == models.ModeStudy && !state.Finished {
			m.ctrl.FinishSession()
		}
	case "q":
		m.ctrl.OpenExit()
	case "y", "enter":
		if state.ExitOpen {
			m.ctrl.ConfirmExit()
		}
	case "n":
		m.ctrl.CancelExit()
	}
}

func (m *Model) quitIfExited() tea.Cmd {
	if m.screen.Frame().Exited {
		return tea.Quit
	}
	return nil
}

// View implements tea.Model.
func (m *Model) View() string {
	f := m.screen.Frame()
	if f.Exited {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("  ")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%s mode", f.Mode)))
	b.WriteString("\n\n")

	b.WriteString(m.renderCard(f))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("Card %d / %d\n", f.Position, f.Total))
	ratio := 0.0
	if f.Total > 0 {
		ratio = float64(f.Position) / float64(f.Total)
	}
	b.WriteString(m.bar.ViewAs(ratio))
	b.WriteString("\n\n")

	if f.Mode == models.ModeStudy {
		b.WriteString(knownStyle.Render(fmt.Sprintf("Known: %d", f.Stats.Known)))
		b.WriteString("  ")
		b.WriteString(notKnownStyle.Render(fmt.Sprintf("Not known: %d", f.Stats.NotKnown)))
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render(controls(f)))
	b.WriteString("\n")

	if f.Summary != "" {
		b.WriteString("\n")
		b.WriteString(summaryStyle.Render(f.Summary))
		b.WriteString("\n")
	}

	switch {
	case f.ExitOpen:
		b.WriteString("\n")
		b.WriteString(modalStyle.Render("Exit this session?\n\ny  exit    n  stay"))
		b.WriteString("\n")
	case f.HelpOpen:
		b.WriteString("\n")
		b.WriteString(modalStyle.Render("Keyboard shortcuts\n\n" + strings.Join(helpLines, "\n")))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderCard(f Frame) string {
	width := minCardWidth
	if m.width > 0 {
		width = max(minCardWidth, min(m.width-4, 80))
	}

	text, label, style := f.Card.Front, "front", cardStyle
	if f.Flipped {
		text, label, style = f.Card.Back, "back", backStyle
	}
	if f.Transitioning {
		style = fadingStyle
	}
	return style.Width(width).Render(mutedStyle.Render(label) + "\n\n" + text)
}

func controls(f Frame) string {
	parts := []string{"space flip"}
	if f.Mode == models.ModeStudy {
		if f.Nav.Answer {
			parts = append(parts, "1 not known", "2 known")
		}
	} else {
		if f.Nav.Back {
			parts = append(parts, "← back")
		}
		if f.Nav.Forward {
			parts = append(parts, "→ next")
		}
	}
	parts = append(parts, "? help", "q exit")
	return strings.Join(parts, " · ")
}
