package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/flashstudy/internal/errors"
	"github.com/vytor/flashstudy/internal/logger"
	"github.com/vytor/flashstudy/internal/models"
	"github.com/vytor/flashstudy/internal/repository"
)

// StudyService handles study session business logic
type StudyService interface {
	StartSession(ctx context.Context, setID uuid.UUID) (*models.StudySession, error)
	Navigate(ctx context.Context, setID uuid.UUID, dir models.Direction, current int) (*models.NavResult, error)
	ResetProgress(ctx context.Context, setID uuid.UUID, mode models.Mode) error
	RecordResults(ctx context.Context, setID uuid.UUID, results models.SessionSummary) error
	AnswerCard(ctx context.Context, setID uuid.UUID, outcome models.Outcome) (*models.AnswerResult, error)
	Summary(ctx context.Context, setID uuid.UUID, fromSession *models.SessionSummary) (*models.SummaryReport, error)
}

type studyService struct {
	setRepo      repository.SetRepository
	progressRepo repository.ProgressRepository
	now          func() time.Time
}

// NewStudyService creates a new StudyService
func NewStudyService(setRepo repository.SetRepository, progressRepo repository.ProgressRepository) StudyService {
	return &studyService{
		setRepo:      setRepo,
		progressRepo: progressRepo,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *studyService) loadSet(ctx context.Context, setID uuid.UUID) (*models.FlashcardSet, []models.Flashcard, error) {
	log := logger.FromContext(ctx)

	set, err := s.setRepo.Get(ctx, setID)
	if err != nil {
		log.Error("failed to get set: %v", err)
		return nil, nil, errors.NewInternalError(err)
	}
	if set == nil {
		return nil, nil, errors.NewNotFoundError("flashcard set", setID)
	}

	cards, err := s.setRepo.Cards(ctx, setID)
	if err != nil {
		log.Error("failed to get cards: %v", err)
		return nil, nil, errors.NewInternalError(err)
	}
	return set, cards, nil
}

// StartSession resumes a stored study-mode run when one exists; otherwise the
// session starts at the first card in regular mode.
func (s *studyService) StartSession(ctx context.Context, setID uuid.UUID) (*models.StudySession, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting study session: set_id=%s", setID)

	set, cards, err := s.loadSet(ctx, setID)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, errors.NewBadRequestError("flashcard set has no cards")
	}

	session := &models.StudySession{
		Set:   *set,
		Cards: models.FlashcardSetWithCards{Cards: cards}.StudyCards(),
		Mode:  models.ModeRegular,
	}

	progress, err := s.progressRepo.Get(ctx, setID)
	if err != nil {
		log.Error("failed to get progress: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if progress != nil && progress.Mode == models.ModeStudy {
		session.Mode = models.ModeStudy
		session.StartIndex = clamp(progress.CurrentIndex, 0, len(cards)-1)
	}
	return session, nil
}

func (s *studyService) Navigate(ctx context.Context, setID uuid.UUID, dir models.Direction, current int) (*models.NavResult, error) {
	_, cards, err := s.loadSet(ctx, setID)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, errors.NewBadRequestError("flashcard set has no cards")
	}

	switch dir {
	case models.DirectionNext:
		current++
	case models.DirectionPrev:
		current--
	}
	current = clamp(current, 0, len(cards)-1)

	return &models.NavResult{
		CurrentIndex: current,
		Card:         cards[current].Card(),
		Total:        len(cards),
	}, nil
}

// ResetProgress drops any stored run and, for study mode, starts a fresh one.
func (s *studyService) ResetProgress(ctx context.Context, setID uuid.UUID, mode models.Mode) error {
	log := logger.FromContext(ctx)
	log.Debug("resetting progress: set_id=%s, mode=%s", setID, mode)

	if _, _, err := s.loadSet(ctx, setID); err != nil {
		return err
	}

	if err := s.progressRepo.Delete(ctx, setID); err != nil {
		log.Error("failed to delete progress: %v", err)
		return errors.NewInternalError(err)
	}

	if mode != models.ModeStudy {
		return nil
	}
	err := s.progressRepo.Save(ctx, models.SetProgress{
		SetID:        setID,
		Mode:         models.ModeStudy,
		LastReviewed: s.now(),
	})
	if err != nil {
		log.Error("failed to create progress: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

// RecordResults checks a client-reported tally. Storage is the caller's
// session.
func (s *studyService) RecordResults(ctx context.Context, setID uuid.UUID, results models.SessionSummary) error {
	if results.Known < 0 || results.NotKnown < 0 || results.Total < 0 {
		return errors.NewValidationError("results", "counts must not be negative")
	}
	if _, _, err := s.loadSet(ctx, setID); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("session results: set_id=%s known=%d not_known=%d total=%d",
		setID, results.Known, results.NotKnown, results.Total)
	return nil
}

// AnswerCard advances a stored study run by one card. The run is deleted once
// it passes the last card.
func (s *studyService) AnswerCard(ctx context.Context, setID uuid.UUID, outcome models.Outcome) (*models.AnswerResult, error) {
	log := logger.FromContext(ctx)

	if !outcome.Valid() {
		return nil, errors.NewValidationError("action", "must be known or not_known")
	}
	_, cards, err := s.loadSet(ctx, setID)
	if err != nil {
		return nil, err
	}

	progress, err := s.progressRepo.Get(ctx, setID)
	if err != nil {
		log.Error("failed to get progress: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if progress == nil {
		return nil, errors.NewNotFoundError("study progress", setID)
	}

	if outcome == models.OutcomeKnown {
		progress.Known++
	} else {
		progress.NotKnown++
	}
	progress.CurrentIndex++
	progress.LastReviewed = s.now()

	if progress.CurrentIndex >= len(cards) {
		summary := models.SessionSummary{Known: progress.Known, NotKnown: progress.NotKnown, Total: len(cards)}
		if err := s.progressRepo.Delete(ctx, setID); err != nil {
			log.Error("failed to delete finished progress: %v", err)
			return nil, errors.NewInternalError(err)
		}
		log.Info("study run completed: set_id=%s known=%d not_known=%d", setID, summary.Known, summary.NotKnown)
		return &models.AnswerResult{Completed: true, Summary: summary}, nil
	}

	if err := s.progressRepo.Save(ctx, *progress); err != nil {
		log.Error("failed to save progress: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return &models.AnswerResult{
		Summary: models.SessionSummary{Known: progress.Known, NotKnown: progress.NotKnown, Total: len(cards)},
	}, nil
}

// Summary prefers the tally popped from the HTTP session, then any stored
// progress, then zeros.
func (s *studyService) Summary(ctx context.Context, setID uuid.UUID, fromSession *models.SessionSummary) (*models.SummaryReport, error) {
	log := logger.FromContext(ctx)

	if _, _, err := s.loadSet(ctx, setID); err != nil {
		return nil, err
	}

	var summary models.SessionSummary
	switch {
	case fromSession != nil:
		summary = *fromSession
	default:
		progress, err := s.progressRepo.Get(ctx, setID)
		if err != nil {
			log.Error("failed to get progress: %v", err)
			return nil, errors.NewInternalError(err)
		}
		if progress != nil {
			summary = models.SessionSummary{
				Known:    progress.Known,
				NotKnown: progress.NotKnown,
				Total:    progress.Known + progress.NotKnown,
			}
		}
	}

	report := summary.Report()
	return &report, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
