// Package tui is the terminal surface for a study session.
package tui

import (
	"sync"

	"github.com/vytor/flashstudy/internal/models"
	"github.com/vytor/flashstudy/internal/study"
)

// Frame is everything the screen shows at one moment.
type Frame struct {
	Card          models.Card
	Flipped       bool
	Transitioning bool
	Position      int
	Total         int
	Nav           study.NavState
	Stats         study.Stats
	Mode          models.Mode
	HelpOpen      bool
	ExitOpen      bool
	Summary       string
	ExitURL       string
	Exited        bool
}

// Screen records controller output for the bubbletea model to draw. It
// satisfies study.View and study.Navigator. The controller may call it from
// timer and worker goroutines.
type Screen struct {
	mu     sync.Mutex
	frame  Frame
	notify func()
}

var (
	_ study.View      = (*Screen)(nil)
	_ study.Navigator = (*Screen)(nil)
)

func NewScreen() *Screen {
	return &Screen{}
}

// OnChange registers fn to run after every update. fn must not block.
func (s *Screen) OnChange(fn func()) {
	s.mu.Lock()
	s.notify = fn
	s.mu.Unlock()
}

// Frame returns a copy of the current frame.
func (s *Screen) Frame() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

func (s *Screen) update(fn func(f *Frame)) {
	s.mu.Lock()
	fn(&s.frame)
	notify := s.notify
	s.mu.Unlock()

	if notify != nil {
		notify()
	}
}

func (s *Screen) RenderCard(card models.Card) {
	s.update(func(f *Frame) { f.Card = card })
}

func (s *Screen) SetFlipped(flipped bool) {
	s.update(func(f *Frame) { f.Flipped = flipped })
}

func (s *Screen) BeginTransition() {
	s.update(func(f *Frame) { f.Transitioning = true })
}

func (s *Screen) EndTransition() {
	s.update(func(f *Frame) { f.Transitioning = false })
}

func (s *Screen) SetProgress(position, total int) {
	s.update(func(f *Frame) {
		f.Position = position
		f.Total = total
	})
}

func (s *Screen) SetNavigation(nav study.NavState) {
	s.update(func(f *Frame) { f.Nav = nav })
}

func (s *Screen) SetStats(stats study.Stats) {
	s.update(func(f *Frame) { f.Stats = stats })
}

func (s *Screen) SetMode(mode models.Mode) {
	s.update(func(f *Frame) { f.Mode = mode })
}

func (s *Screen) SetDialog(kind study.DialogKind, open bool) {
	s.update(func(f *Frame) {
		switch kind {
		case study.DialogHelp:
			f.HelpOpen = open
		case study.DialogExit:
			f.ExitOpen = open
		}
	})
}

func (s *Screen) ShowSummary(text string) {
	s.update(func(f *Frame) { f.Summary = text })
}

// Navigate marks the session as left; the model quits on the next update.
func (s *Screen) Navigate(url string) {
	s.update(func(f *Frame) {
		f.ExitURL = url
		f.Exited = true
	})
}
