package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/vytor/flashstudy/internal/models"
)

// SetRepository handles flashcard set data access
type SetRepository interface {
	Create(ctx context.Context, set models.FlashcardSet, cards []models.Card) (uuid.UUID, error)
	Get(ctx context.Context, id uuid.UUID) (*models.FlashcardSet, error)
	List(ctx context.Context, filter models.SetFilter) ([]models.FlashcardSet, error)
	Count(ctx context.Context, filter models.SetFilter) (int, error)
	Cards(ctx context.Context, setID uuid.UUID) ([]models.Flashcard, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProgressRepository handles per-set study progress data access
type ProgressRepository interface {
	Get(ctx context.Context, setID uuid.UUID) (*models.SetProgress, error)
	Save(ctx context.Context, progress models.SetProgress) error
	Delete(ctx context.Context, setID uuid.UUID) error
}
