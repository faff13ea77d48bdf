package services

import (
	"context"
	"strings"

	"github.com/vytor/flashstudy/internal/errors"
	"github.com/vytor/flashstudy/internal/generate"
	"github.com/vytor/flashstudy/internal/logger"
	"github.com/vytor/flashstudy/internal/models"
	"github.com/vytor/flashstudy/internal/repository"
)

const (
	defaultAmount     = 5
	maxAmount         = 50
	defaultDifficulty = "Medium"
)

// GenerationService creates flashcard sets from AI output
type GenerationService interface {
	Generate(ctx context.Context, req models.GenerateRequest) (*models.FlashcardSet, error)
}

type generationService struct {
	setRepo   repository.SetRepository
	generator generate.Generator
	fetcher   generate.SourceFetcher
}

// NewGenerationService creates a new GenerationService. fetcher may be nil,
// in which case source URLs are rejected.
func NewGenerationService(setRepo repository.SetRepository, generator generate.Generator, fetcher generate.SourceFetcher) GenerationService {
	return &generationService{setRepo: setRepo, generator: generator, fetcher: fetcher}
}

func (s *generationService) Generate(ctx context.Context, req models.GenerateRequest) (*models.FlashcardSet, error) {
	log := logger.FromContext(ctx).WithField("activity", req.ActivityType)

	if req.ActivityType != models.ActivityFlashcards {
		return nil, errors.NewBadRequestError("unsupported activity type: " + req.ActivityType)
	}
	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		return nil, errors.NewValidationError("prompt", "must not be empty")
	}
	if req.Amount <= 0 {
		req.Amount = defaultAmount
	}
	if req.Amount > maxAmount {
		req.Amount = maxAmount
	}
	if strings.TrimSpace(req.Difficulty) == "" {
		req.Difficulty = defaultDifficulty
	}

	var sourceText string
	if req.SourceURL != "" {
		if s.fetcher == nil {
			return nil, errors.NewBadRequestError("source urls are not supported")
		}
		text, err := s.fetcher.Fetch(ctx, req.SourceURL)
		if err != nil {
			log.Warn("failed to fetch source %s: %v", req.SourceURL, err)
			return nil, errors.NewUpstreamError("source", err)
		}
		sourceText = text
	}

	generated, usage, err := s.generator.Generate(ctx, req, sourceText)
	if err != nil {
		log.Error("generation failed: %v", err)
		return nil, errors.NewUpstreamError("generation", err)
	}
	log.Info("generated %d cards (tokens: prompt=%d completion=%d total=%d)",
		len(generated.Flashcards), usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens)

	set := models.FlashcardSet{
		Title:       generated.Title,
		Description: generated.Description,
		Subject:     generated.Subject,
		Difficulty:  generated.Difficulty,
	}
	id, err := s.setRepo.Create(ctx, set, generated.Flashcards)
	if err != nil {
		log.Error("failed to save generated set: %v", err)
		return nil, errors.NewInternalError(err)
	}
	set.ID = id
	set.CardCount = len(generated.Flashcards)
	return &set, nil
}
