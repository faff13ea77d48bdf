package models

import (
	"time"

	"github.com/google/uuid"
)

type FlashcardSet struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Subject     string    `json:"subject"`
	Difficulty  string    `json:"difficulty"`
	CardCount   int       `json:"card_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type Flashcard struct {
	ID       int64     `json:"id"`
	SetID    uuid.UUID `json:"set_id"`
	Position int       `json:"position"`
	Front    string    `json:"front"`
	Back     string    `json:"back"`
}

// Card strips storage fields from f.
func (f Flashcard) Card() Card {
	return Card{Front: f.Front, Back: f.Back}
}

// FlashcardSetWithCards is a set plus its cards in display order.
type FlashcardSetWithCards struct {
	FlashcardSet
	Cards []Flashcard `json:"cards"`
}

// StudyCards returns the set's cards as study content.
func (s FlashcardSetWithCards) StudyCards() []Card {
	out := make([]Card, len(s.Cards))
	for i, c := range s.Cards {
		out[i] = c.Card()
	}
	return out
}

// SetFilter narrows a set listing.
type SetFilter struct {
	Subject    string
	Difficulty string
	Search     string
	Limit      int
	Offset     int
}
