package study

import (
	"context"
	"fmt"

	"github.com/vytor/flashstudy/internal/models"
)

// SummaryText is what the page shows once results are accepted.
func SummaryText(known, notKnown int) string {
	return fmt.Sprintf("Done! Known: %d, Not known: %d", known, notKnown)
}

// resetJob tells the server about a mode change. Failures never touch local
// state.
type resetJob struct {
	c     *Controller
	mode  models.Mode
	epoch uint64
}

func (j *resetJob) Name() string { return "reset-session" }

func (j *resetJob) Run(ctx context.Context) error {
	if j.c.syncer == nil {
		return nil
	}
	err := j.c.syncer.ResetSession(ctx, j.mode)
	j.c.resetDone(j.epoch, j.mode, err)
	return nil
}

func (c *Controller) resetDone(epoch uint64, mode models.Mode, err error) {
	c.mu.Lock()
	stale := epoch != c.epoch
	c.mu.Unlock()

	log := c.log.WithFields(map[string]any{"mode": mode, "epoch": epoch})
	switch {
	case err != nil:
		log.WithError(err).Warn("Failed to reset server session, continuing locally.")
	case stale:
		log.Debug("ignoring stale reset acknowledgement")
	default:
		log.Debug("server session reset")
	}
}

// finishJob posts the final tally and shows the summary on success.
type finishJob struct {
	c       *Controller
	results models.SessionSummary
	epoch   uint64
}

func (j *finishJob) Name() string { return "submit-results" }

func (j *finishJob) Run(ctx context.Context) error {
	if j.c.syncer == nil {
		j.c.finishDone(j.epoch, j.results, nil, nil)
		return nil
	}
	ack, err := j.c.syncer.SubmitResults(ctx, j.results)
	j.c.finishDone(j.epoch, j.results, ack, err)
	return nil
}

func (c *Controller) finishDone(epoch uint64, results models.SessionSummary, ack *ResultsAck, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	log := c.log.WithField("epoch", epoch)
	if err != nil {
		log.WithError(err).Error("failed to submit session results")
		return
	}
	if epoch != c.epoch {
		log.Debug("ignoring stale results acknowledgement")
		return
	}
	if ack != nil {
		log.Info("results saved: completed=%t known=%d not_known=%d total=%d", ack.Completed, ack.Known, ack.NotKnown, ack.Total)
	}

	c.summary = SummaryText(results.Known, results.NotKnown)
	c.view.ShowSummary(c.summary)
}
