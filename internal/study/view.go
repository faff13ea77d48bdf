package study

import (
	"context"
	"time"

	"github.com/vytor/flashstudy/internal/models"
	"github.com/vytor/flashstudy/internal/worker"
)

// View is the rendering surface a Controller drives. Implementations must not
// call back into the Controller from these methods.
type View interface {
	// RenderCard swaps the displayed front and back text.
	RenderCard(card models.Card)
	// SetFlipped shows the back (true) or the front (false).
	SetFlipped(flipped bool)
	// BeginTransition fades / slides the current card out.
	BeginTransition()
	// EndTransition brings the card back in after RenderCard.
	EndTransition()
	// SetProgress reports the 1-based position out of total.
	SetProgress(position, total int)
	SetNavigation(nav NavState)
	SetStats(stats Stats)
	// SetMode shows the control group for mode and hides the other.
	SetMode(mode models.Mode)
	SetDialog(kind DialogKind, open bool)
	ShowSummary(text string)
}

// NavState is the enabled state of the on-screen controls.
type NavState struct {
	Back    bool
	Forward bool
	Answer  bool
}

// Navigator leaves the study page.
type Navigator interface {
	Navigate(url string)
}

// Syncer echoes session events to the server.
type Syncer interface {
	ResetSession(ctx context.Context, mode models.Mode) error
	SubmitResults(ctx context.Context, results models.SessionSummary) (*ResultsAck, error)
}

// ResultsAck is what the answer endpoint sends back. Only logged.
type ResultsAck struct {
	Completed bool `json:"completed"`
	Known     int  `json:"known"`
	NotKnown  int  `json:"not_known"`
	Total     int  `json:"total"`
}

// Runner accepts async work. *worker.Pool satisfies it.
type Runner interface {
	Submit(job worker.Job) error
}

// Scheduler runs fn once after d. The default uses time.AfterFunc.
type Scheduler func(d time.Duration, fn func())

func afterFunc(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

// InlineRunner runs each job synchronously on the caller's goroutine.
type InlineRunner struct {
	Ctx context.Context
}

func (r InlineRunner) Submit(job worker.Job) error {
	ctx := r.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	_ = job.Run(ctx)
	return nil
}

type noopView struct{}

func (noopView) RenderCard(models.Card) {}
func (noopView) SetFlipped(bool) {}
func (noopView) BeginTransition() {}
func (noopView) EndTransition() {}
func (noopView) SetProgress(int, int) {}
func (noopView) SetNavigation(NavState) {}
func (noopView) SetStats(Stats) {}
func (noopView) SetMode(models.Mode) {}
func (noopView) SetDialog(DialogKind, bool) {}
func (noopView) ShowSummary(string) {}

type noopNavigator struct{}

func (noopNavigator) Navigate(string) {}
