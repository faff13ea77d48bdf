package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/vytor/flashstudy/internal/errors"
	"github.com/vytor/flashstudy/internal/logger"
	"github.com/vytor/flashstudy/internal/models"
	"github.com/vytor/flashstudy/internal/repository"
)

// SetService handles flashcard set business logic
type SetService interface {
	ListSets(ctx context.Context, filter models.SetFilter) ([]models.FlashcardSet, int, error)
	GetSet(ctx context.Context, id uuid.UUID) (*models.FlashcardSetWithCards, error)
	CreateSet(ctx context.Context, input models.CreateSetInput) (*models.FlashcardSet, error)
	DeleteSet(ctx context.Context, id uuid.UUID) error
}

type setService struct {
	setRepo repository.SetRepository
}

// NewSetService creates a new SetService
func NewSetService(setRepo repository.SetRepository) SetService {
	return &setService{setRepo: setRepo}
}

func (s *setService) ListSets(ctx context.Context, filter models.SetFilter) ([]models.FlashcardSet, int, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing sets: subject=%s, search=%s", filter.Subject, filter.Search)

	sets, err := s.setRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list sets: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}

	total, err := s.setRepo.Count(ctx, filter)
	if err != nil {
		log.Error("failed to count sets: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}

	return sets, total, nil
}

func (s *setService) GetSet(ctx context.Context, id uuid.UUID) (*models.FlashcardSetWithCards, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting set: id=%s", id)

	set, err := s.setRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get set: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if set == nil {
		return nil, errors.NewNotFoundError("flashcard set", id)
	}

	cards, err := s.setRepo.Cards(ctx, id)
	if err != nil {
		log.Error("failed to get cards: %v", err)
		return nil, errors.NewInternalError(err)
	}

	return &models.FlashcardSetWithCards{FlashcardSet: *set, Cards: cards}, nil
}

func (s *setService) CreateSet(ctx context.Context, input models.CreateSetInput) (*models.FlashcardSet, error) {
	log := logger.FromContext(ctx)

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.NewValidationError("title", "must not be empty")
	}
	if len(input.Cards) == 0 {
		return nil, errors.NewValidationError("cards", "at least one card is required")
	}
	cards := make([]models.Card, 0, len(input.Cards))
	for _, c := range input.Cards {
		front, back := strings.TrimSpace(c.Front), strings.TrimSpace(c.Back)
		if front == "" || back == "" {
			return nil, errors.NewValidationError("cards", "every card needs a front and a back")
		}
		cards = append(cards, models.Card{Front: front, Back: back})
	}

	set := models.FlashcardSet{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Subject:     orDefault(input.Subject, "General"),
		Difficulty:  orDefault(input.Difficulty, "Medium"),
	}
	id, err := s.setRepo.Create(ctx, set, cards)
	if err != nil {
		log.Error("failed to create set: %v", err)
		return nil, errors.NewInternalError(err)
	}
	set.ID = id
	set.CardCount = len(cards)

	log.Info("created flashcard set %s with %d cards", id, len(cards))
	return &set, nil
}

func (s *setService) DeleteSet(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContext(ctx)

	set, err := s.setRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get set: %v", err)
		return errors.NewInternalError(err)
	}
	if set == nil {
		return errors.NewNotFoundError("flashcard set", id)
	}

	if err := s.setRepo.Delete(ctx, id); err != nil {
		log.Error("failed to delete set: %v", err)
		return errors.NewInternalError(err)
	}
	log.Info("deleted flashcard set %s", id)
	return nil
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}
