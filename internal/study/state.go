package study

import "github.com/vytor/flashstudy/internal/models"

// Stats is the study-mode tally.
type Stats struct {
	Known    int
	NotKnown int
}

func (s Stats) Answered() int {
	return s.Known + s.NotKnown
}

// State is a snapshot of a session. Index equals len(Cards) once a study run
// has gone past the last card.
type State struct {
	Cards      []models.Card
	Index      int
	Total      int
	Mode       models.Mode
	Flipped    bool
	Stats      Stats
	Processing bool
	Finished   bool
	Summary    string
	Epoch      uint64
	HelpOpen   bool
	ExitOpen   bool
}

// Current returns the card at Index, or false when the run is finished.
func (s State) Current() (models.Card, bool) {
	if s.Index < 0 || s.Index >= len(s.Cards) {
		return models.Card{}, false
	}
	return s.Cards[s.Index], true
}
