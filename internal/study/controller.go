package study

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/vytor/flashstudy/internal/logger"
	"github.com/vytor/flashstudy/internal/models"
	"github.com/vytor/flashstudy/internal/worker"
)

// TransitionDuration is how long a card stays faded out before the new text
// is swapped in.
const TransitionDuration = 150 * time.Millisecond

// Controller owns one study session. All methods are safe to call from any
// goroutine; view calls happen with the session lock held, so a View must
// never call back into the Controller synchronously.
type Controller struct {
	mu sync.Mutex

	cards    []models.Card
	index    int
	total    int
	mode     models.Mode
	flipped  bool
	stats    Stats
	finished bool
	summary  string

	// processing is set while a card transition is in flight; transition
	// identifies the latest one so older timer callbacks become no-ops.
	processing bool
	transition uint64
	// epoch bumps on every local reset; async results carry the epoch they
	// were issued under and are dropped when it no longer matches.
	epoch uint64

	help *Dialog
	exit *Dialog

	exitURL   string
	animation time.Duration

	view     View
	syncer   Syncer
	runner   Runner
	schedule Scheduler
	nav      Navigator
	rng      *rand.Rand
	ctx      context.Context
	log      *logger.Logger
}

type Option func(*Controller)

func WithView(v View) Option {
	return func(c *Controller) { c.view = v }
}

func WithSyncer(s Syncer) Option {
	return func(c *Controller) { c.syncer = s }
}

// WithRunner sets where async server calls run. Defaults to InlineRunner.
func WithRunner(r Runner) Option {
	return func(c *Controller) { c.runner = r }
}

func WithScheduler(s Scheduler) Option {
	return func(c *Controller) { c.schedule = s }
}

func WithNavigator(n Navigator) Option {
	return func(c *Controller) { c.nav = n }
}

// WithRand sets the shuffle source.
func WithRand(r *rand.Rand) Option {
	return func(c *Controller) { c.rng = r }
}

func WithLogger(l *logger.Logger) Option {
	return func(c *Controller) { c.log = l.WithPrefix("study") }
}

func WithAnimation(d time.Duration) Option {
	return func(c *Controller) { c.animation = d }
}

// WithContext sets the context handed to InlineRunner when no runner is given.
func WithContext(ctx context.Context) Option {
	return func(c *Controller) { c.ctx = ctx }
}

// New builds a controller from the page bundle. Cards are copied so shuffling
// never touches the caller's slice.
func New(boot Bootstrap, opts ...Option) (*Controller, error) {
	if err := boot.Validate(); err != nil {
		return nil, err
	}

	c := &Controller{
		cards:     append([]models.Card(nil), boot.Cards...),
		index:     boot.Start(),
		total:     boot.Total(),
		mode:      boot.Mode(),
		help:      newDialog(DialogHelp),
		exit:      newDialog(DialogExit),
		exitURL:   boot.ExitURL,
		animation: TransitionDuration,
		view:      noopView{},
		schedule:  afterFunc,
		nav:       noopNavigator{},
		ctx:       context.Background(),
		log:       logger.Default().WithPrefix("study"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.runner == nil {
		c.runner = InlineRunner{Ctx: c.ctx}
	}
	return c, nil
}

// do runs fn under the lock, then runs the effects it returned (timers, job
// submissions, navigation) after the lock is released.
func (c *Controller) do(fn func() []func()) {
	c.mu.Lock()
	effects := fn()
	c.mu.Unlock()
	for _, effect := range effects {
		effect()
	}
}

// Start paints the initial card, controls and closed dialogs. It does not
// contact the server.
func (c *Controller) Start() {
	c.do(func() []func() {
		c.log.Debug("starting session: %d cards, mode=%s, index=%d", len(c.cards), c.mode, c.index)
		c.view.SetMode(c.mode)
		c.view.RenderCard(c.cards[c.index])
		c.view.SetFlipped(false)
		c.refreshLocked()
		c.view.SetDialog(DialogHelp, c.help.IsOpen())
		c.view.SetDialog(DialogExit, c.exit.IsOpen())
		return nil
	})
}

// Flip toggles between front and back. Ignored while a transition is running
// or once the run has finished.
func (c *Controller) Flip() {
	c.do(func() []func() {
		if c.processing || c.finished {
			return nil
		}
		c.flipped = !c.flipped
		c.view.SetFlipped(c.flipped)
		return nil
	})
}

// Shuffle reorders the deck with Fisher-Yates and restarts the run locally.
func (c *Controller) Shuffle() {
	c.do(func() []func() {
		for i := len(c.cards) - 1; i > 0; i-- {
			j := c.rng.Intn(i + 1)
			c.cards[i], c.cards[j] = c.cards[j], c.cards[i]
		}
		effect := c.resetLocked()
		c.log.Debug("shuffled %d cards", len(c.cards))
		return []func(){effect}
	})
}

// StudyAnswer scores the current card and moves on. Going past the last card
// finishes the session.
func (c *Controller) StudyAnswer(outcome models.Outcome) {
	c.do(func() []func() {
		if c.mode != models.ModeStudy || c.finished || !outcome.Valid() {
			c.log.Debug("ignoring answer %q (mode=%s, finished=%t)", outcome, c.mode, c.finished)
			return nil
		}

		if outcome == models.OutcomeKnown {
			c.stats.Known++
		} else {
			c.stats.NotKnown++
		}
		c.index++
		c.flipped = false

		if c.index >= len(c.cards) {
			c.finished = true
			c.refreshLocked()
			return []func(){c.finishLocked()}
		}

		effect := c.beginTransitionLocked()
		c.refreshLocked()
		return []func(){effect}
	})
}

// RegularNavigate steps forward or back in regular mode. At either end of the
// deck it does nothing at all.
func (c *Controller) RegularNavigate(dir models.Direction) {
	c.do(func() []func() {
		if c.mode != models.ModeRegular {
			return nil
		}

		switch dir {
		case models.DirectionNext:
			if c.index >= len(c.cards)-1 {
				return nil
			}
			c.index++
		case models.DirectionPrev:
			if c.index <= 0 {
				return nil
			}
			c.index--
		default:
			c.log.Debug("ignoring unknown direction %q", dir)
			return nil
		}
		c.flipped = false

		effect := c.beginTransitionLocked()
		c.refreshLocked()
		return []func(){effect}
	})
}

// ToggleMode switches mode, restarts the run and tells the server. The local
// switch never waits on or depends on the server answer.
func (c *Controller) ToggleMode(mode models.Mode) {
	c.do(func() []func() {
		if mode != models.ModeStudy && mode != models.ModeRegular {
			c.log.Warn("ignoring unknown mode %q", mode)
			return nil
		}
		c.mode = mode
		c.view.SetMode(mode)
		effect := c.resetLocked()
		c.log.Info("switched to %s mode", mode)

		job := &resetJob{c: c, mode: mode, epoch: c.epoch}
		return []func(){effect, func() { c.submit(job) }}
	})
}

// FinishSession ends the run early and submits the current tally. On success
// the summary is shown; on failure it is only logged. A finished run takes no
// further answers until it is reset.
func (c *Controller) FinishSession() {
	c.do(func() []func() {
		if c.finished {
			c.log.Debug("session already finished")
			return nil
		}
		c.finished = true
		c.refreshLocked()
		return []func(){c.finishLocked()}
	})
}

func (c *Controller) finishLocked() func() {
	results := models.SessionSummary{
		Known:    c.stats.Known,
		NotKnown: c.stats.NotKnown,
		Total:    c.total,
	}
	job := &finishJob{c: c, results: results, epoch: c.epoch}
	c.log.Info("session finished: known=%d not_known=%d total=%d", results.Known, results.NotKnown, results.Total)
	return func() { c.submit(job) }
}

// resetLocked puts the run back to the first card with a zero tally. It
// supersedes any pending transition and returns the effect that fades the
// first card in.
func (c *Controller) resetLocked() func() {
	c.index = 0
	c.stats = Stats{}
	c.flipped = false
	c.finished = false
	c.summary = ""
	c.epoch++

	c.view.ShowSummary("")
	effect := c.beginTransitionLocked()
	c.refreshLocked()
	return effect
}

// beginTransitionLocked fades the card out and returns the effect that
// schedules the swap and fade in.
func (c *Controller) beginTransitionLocked() func() {
	c.processing = true
	c.transition++
	gen := c.transition
	c.view.BeginTransition()
	return func() {
		c.schedule(c.animation, func() { c.endTransition(gen) })
	}
}

func (c *Controller) endTransition(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.transition {
		return
	}
	if c.index < len(c.cards) {
		c.view.RenderCard(c.cards[c.index])
	}
	c.view.SetFlipped(c.flipped)
	c.view.EndTransition()
	c.processing = false
}

func (c *Controller) refreshLocked() {
	position := c.index + 1
	if position > c.total {
		position = c.total
	}
	c.view.SetProgress(position, c.total)
	c.view.SetNavigation(c.navStateLocked())
	c.view.SetStats(c.stats)
}

func (c *Controller) navStateLocked() NavState {
	if c.mode == models.ModeStudy {
		return NavState{Answer: !c.finished}
	}
	return NavState{
		Back:    c.index > 0,
		Forward: c.index < len(c.cards)-1,
	}
}

func (c *Controller) submit(job worker.Job) {
	if err := c.runner.Submit(job); err != nil {
		c.log.WithError(err).Error("could not queue %s", job.Name())
	}
}

// OpenHelp shows the keyboard shortcut dialog.
func (c *Controller) OpenHelp() { c.setDialog(c.help, true) }

func (c *Controller) CloseHelp() { c.setDialog(c.help, false) }

// OpenExit asks for exit confirmation.
func (c *Controller) OpenExit() { c.setDialog(c.exit, true) }

func (c *Controller) CancelExit() { c.setDialog(c.exit, false) }

// ConfirmExit leaves for the exit URL. Session state is left as it is.
func (c *Controller) ConfirmExit() {
	c.do(func() []func() {
		url := c.exitURL
		c.log.Debug("leaving session for %s", url)
		return []func(){func() { c.nav.Navigate(url) }}
	})
}

// ClickBackdrop handles a click inside a dialog. onContainer reports whether
// the click target was the dialog container rather than its content.
func (c *Controller) ClickBackdrop(kind DialogKind, onContainer bool) {
	c.do(func() []func() {
		d := c.dialogLocked(kind)
		if d != nil && d.ClickBackdrop(onContainer) {
			c.view.SetDialog(kind, false)
		}
		return nil
	})
}

// CloseDialogs closes whatever is open and reports whether anything was.
func (c *Controller) CloseDialogs() bool {
	closed := false
	c.do(func() []func() {
		for _, d := range []*Dialog{c.help, c.exit} {
			if d.Close() {
				c.view.SetDialog(d.Kind(), false)
				closed = true
			}
		}
		return nil
	})
	return closed
}

func (c *Controller) setDialog(d *Dialog, open bool) {
	c.do(func() []func() {
		var changed bool
		if open {
			changed = d.Open()
		} else {
			changed = d.Close()
		}
		if changed {
			c.view.SetDialog(d.Kind(), open)
		}
		return nil
	})
}

func (c *Controller) dialogLocked(kind DialogKind) *Dialog {
	switch kind {
	case DialogHelp:
		return c.help
	case DialogExit:
		return c.exit
	default:
		return nil
	}
}

// State returns a copy of the session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return State{
		Cards:      append([]models.Card(nil), c.cards...),
		Index:      c.index,
		Total:      c.total,
		Mode:       c.mode,
		Flipped:    c.flipped,
		Stats:      c.stats,
		Processing: c.processing,
		Finished:   c.finished,
		Summary:    c.summary,
		Epoch:      c.epoch,
		HelpOpen:   c.help.IsOpen(),
		ExitOpen:   c.exit.IsOpen(),
	}
}
