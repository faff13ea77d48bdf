package generate

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/vytor/flashstudy/internal/models"
)

const (
	DefaultTitle      = "Untitled Flashcards"
	DefaultSubject    = "General"
	DefaultDifficulty = "Medium"
)

// ErrNoFlashcards is returned when the model produced a set without cards.
var ErrNoFlashcards = errors.New("generated set has no flashcards")

// ParseSet decodes model output into a set. The object may be wrapped in a
// "FlashcardSet" key. Missing metadata gets defaults and cards with an empty
// side are dropped.
func ParseSet(content string) (models.GeneratedSet, error) {
	raw := []byte(stripFences(content))

	var wrapped struct {
		FlashcardSet *models.GeneratedSet `json:"FlashcardSet"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return models.GeneratedSet{}, fmt.Errorf("AI returned invalid JSON: %w", err)
	}

	var set models.GeneratedSet
	if wrapped.FlashcardSet != nil {
		set = *wrapped.FlashcardSet
	} else if err := json.Unmarshal(raw, &set); err != nil {
		return models.GeneratedSet{}, fmt.Errorf("AI returned invalid JSON: %w", err)
	}

	if strings.TrimSpace(set.Title) == "" {
		set.Title = DefaultTitle
	}
	if strings.TrimSpace(set.Subject) == "" {
		set.Subject = DefaultSubject
	}
	if strings.TrimSpace(set.Difficulty) == "" {
		set.Difficulty = DefaultDifficulty
	}

	cards := set.Flashcards[:0]
	for _, c := range set.Flashcards {
		c.Front = strings.TrimSpace(c.Front)
		c.Back = strings.TrimSpace(c.Back)
		if c.Front == "" || c.Back == "" {
			continue
		}
		cards = append(cards, c)
	}
	set.Flashcards = cards

	if len(set.Flashcards) == 0 {
		return models.GeneratedSet{}, ErrNoFlashcards
	}
	return set, nil
}

// stripFences removes a surrounding Markdown code fence, which models add
// despite being told not to.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
