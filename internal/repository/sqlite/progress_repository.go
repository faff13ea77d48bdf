package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/flashstudy/internal/logger"
	"github.com/vytor/flashstudy/internal/models"
	"github.com/vytor/flashstudy/internal/repository"
)

type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new ProgressRepository implementation
func NewProgressRepository(db *sql.DB) repository.ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Get(ctx context.Context, setID uuid.UUID) (*models.SetProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("getting progress: set_id=%s", setID)

	var p models.SetProgress
	var mode string
	err := r.db.QueryRowContext(ctx, `
SELECT set_id, mode, current_index, known, not_known, completed, last_reviewed
FROM flashcard_progress
WHERE set_id = ?
`, setID).Scan(&p.SetID, &mode, &p.CurrentIndex, &p.Known, &p.NotKnown, &p.Completed, &p.LastReviewed)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no progress for set: %s", setID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get progress: %v", err)
		return nil, err
	}
	p.Mode = models.Mode(mode)
	return &p, nil
}

func (r *progressRepository) Save(ctx context.Context, p models.SetProgress) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("saving progress: set_id=%s, index=%d, known=%d, not_known=%d", p.SetID, p.CurrentIndex, p.Known, p.NotKnown)

	if p.LastReviewed.IsZero() {
		p.LastReviewed = time.Now().UTC()
	}
	if p.Mode == "" {
		p.Mode = models.ModeStudy
	}

	query, args, err := sqlBuilder.Insert("flashcard_progress").
		Columns("set_id", "mode", "current_index", "known", "not_known", "completed", "last_reviewed").
		Values(p.SetID, string(p.Mode), p.CurrentIndex, p.Known, p.NotKnown, p.Completed, p.LastReviewed).
		Suffix(`ON CONFLICT(set_id) DO UPDATE SET
    mode = excluded.mode,
    current_index = excluded.current_index,
    known = excluded.known,
    not_known = excluded.not_known,
    completed = excluded.completed,
    last_reviewed = excluded.last_reviewed`).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to save progress: %v", err)
		return err
	}
	return nil
}

func (r *progressRepository) Delete(ctx context.Context, setID uuid.UUID) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("deleting progress: set_id=%s", setID)

	_, err := r.db.ExecContext(ctx, `DELETE FROM flashcard_progress WHERE set_id = ?`, setID)
	if err != nil {
		log.Error("failed to delete progress: %v", err)
	}
	return err
}
