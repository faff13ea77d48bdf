package study

import "github.com/vytor/flashstudy/internal/models"

// Key names as reported by the rendering surface.
const (
	KeySpace      = " "
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyEscape     = "Escape"
	KeyHelp       = "?"
	KeyNotKnown   = "1"
	KeyKnown      = "2"
)

// KeyEvent is a key press from the surface. InTextInput is set when focus is
// in a text field.
type KeyEvent struct {
	Key         string
	InTextInput bool
	Meta        bool
	Ctrl        bool
	Alt         bool
}

// Inert reports whether shortcuts must ignore the event. Shift is not a
// blocking modifier since '?' needs it on most layouts.
func (e KeyEvent) Inert() bool {
	return e.InTextInput || e.Meta || e.Ctrl || e.Alt
}

// HandleKey maps a key press to an operation and reports whether it was
// consumed.
func (c *Controller) HandleKey(ev KeyEvent) bool {
	if ev.Inert() {
		return false
	}

	c.mu.Lock()
	mode := c.mode
	c.mu.Unlock()

	switch ev.Key {
	case KeySpace:
		c.Flip()
	case KeyNotKnown:
		if mode != models.ModeStudy {
			return false
		}
		c.StudyAnswer(models.OutcomeNotKnown)
	case KeyKnown:
		if mode != models.ModeStudy {
			return false
		}
		c.StudyAnswer(models.OutcomeKnown)
	case KeyArrowRight:
		if mode != models.ModeRegular {
			return false
		}
		c.RegularNavigate(models.DirectionNext)
	case KeyArrowLeft:
		if mode != models.ModeRegular {
			return false
		}
		c.RegularNavigate(models.DirectionPrev)
	case KeyHelp:
		c.OpenHelp()
	case KeyEscape:
		return c.CloseDialogs()
	default:
		return false
	}
	return true
}
