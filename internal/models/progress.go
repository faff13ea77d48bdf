package models

import (
	"time"

	"github.com/google/uuid"
)

// SetProgress tracks a form-driven (non-AJAX) study run for one set. It is
// removed once the run completes.
type SetProgress struct {
	SetID        uuid.UUID `json:"set_id"`
	Mode         Mode      `json:"mode"`
	CurrentIndex int       `json:"current_index"`
	Known        int       `json:"known"`
	NotKnown     int       `json:"not_known"`
	Completed    bool      `json:"completed"`
	LastReviewed time.Time `json:"last_reviewed"`
}

// SessionSummary is the end-of-session tally posted by the study client.
type SessionSummary struct {
	Known    int `json:"known"`
	NotKnown int `json:"not_known"`
	Total    int `json:"total"`
}

// SummaryReport is a SessionSummary with derived percentages for display.
type SummaryReport struct {
	SessionSummary
	KnownPercent    float64 `json:"known_percent"`
	NotKnownPercent float64 `json:"not_known_percent"`
}

// Report computes percentages relative to Total; a zero total yields zeros.
func (s SessionSummary) Report() SummaryReport {
	r := SummaryReport{SessionSummary: s}
	if s.Total > 0 {
		r.KnownPercent = float64(s.Known) / float64(s.Total) * 100
		r.NotKnownPercent = float64(s.NotKnown) / float64(s.Total) * 100
	}
	return r
}
