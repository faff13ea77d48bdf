package models

import (
	"fmt"
	"strings"
)

// Card is the content of a single flashcard as the study session sees it.
type Card struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Mode selects how a study session treats navigation.
type Mode string

const (
	// ModeStudy scores each card as known / not known and only moves forward.
	ModeStudy Mode = "study"
	// ModeRegular allows free back / forward browsing without scoring.
	ModeRegular Mode = "regular"
)

// ParseMode accepts "study" or "regular" (case-insensitive). Anything else is an error.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeStudy:
		return ModeStudy, nil
	case ModeRegular:
		return ModeRegular, nil
	default:
		return "", fmt.Errorf("unknown mode %q", s)
	}
}

// ModeFromStudyFlag maps the boolean study-mode toggle to a Mode.
func ModeFromStudyFlag(study bool) Mode {
	if study {
		return ModeStudy
	}
	return ModeRegular
}

// Outcome is the user's answer for a card in study mode.
type Outcome string

const (
	OutcomeKnown    Outcome = "known"
	OutcomeNotKnown Outcome = "not_known"
)

// Valid reports whether o is one of the two known outcomes.
func (o Outcome) Valid() bool {
	return o == OutcomeKnown || o == OutcomeNotKnown
}

// Direction is a regular-mode navigation step.
type Direction string

const (
	DirectionNext Direction = "next"
	DirectionPrev Direction = "prev"
)
