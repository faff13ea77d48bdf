package study

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vytor/flashstudy/internal/models"
)

// ErrEmptyDeck is returned when a session would start with no cards.
var ErrEmptyDeck = errors.New("study: no flashcards to study")

// Bootstrap is the data bundle the server embeds in the study page.
type Bootstrap struct {
	Cards       []models.Card `json:"allFlashcards"`
	InitialCard *models.Card  `json:"initialCard,omitempty"`
	StartIndex  int           `json:"startIndex"`
	TotalCards  int           `json:"totalCards"`
	StudyMode   bool          `json:"studyModeInitial"`
	CSRFToken   string        `json:"csrfToken"`
	ResetURL    string        `json:"resetUrl"`
	AnswerURL   string        `json:"answerUrl"`
	ExitURL     string        `json:"exitUrl"`
}

// ParseBootstrap decodes and checks a bundle.
func ParseBootstrap(data []byte) (Bootstrap, error) {
	var b Bootstrap
	if err := json.Unmarshal(data, &b); err != nil {
		return Bootstrap{}, fmt.Errorf("decode bootstrap: %w", err)
	}
	if err := b.Validate(); err != nil {
		return Bootstrap{}, err
	}
	return b, nil
}

// Validate requires at least one card. Card contents are trusted as-is.
func (b Bootstrap) Validate() error {
	if len(b.Cards) == 0 {
		return ErrEmptyDeck
	}
	return nil
}

// Mode is the initial session mode.
func (b Bootstrap) Mode() models.Mode {
	return models.ModeFromStudyFlag(b.StudyMode)
}

// Total is the count the progress indicator divides by. A missing or
// inconsistent totalCards falls back to the card count.
func (b Bootstrap) Total() int {
	if b.TotalCards <= 0 || b.TotalCards != len(b.Cards) {
		return len(b.Cards)
	}
	return b.TotalCards
}

// Start clamps StartIndex into the deck.
func (b Bootstrap) Start() int {
	switch {
	case b.StartIndex < 0:
		return 0
	case b.StartIndex >= len(b.Cards):
		return len(b.Cards) - 1
	default:
		return b.StartIndex
	}
}
