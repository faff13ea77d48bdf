package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/flashstudy/internal/errors"
	"github.com/vytor/flashstudy/internal/logger"
	"github.com/vytor/flashstudy/internal/models"
)

// handleCreateAIActivity generates and saves a set from the widget form.
// Failures are reported in the body with a 200 so the widget can show its
// own message.
func (s *Server) handleCreateAIActivity(w http.ResponseWriter, r *http.Request) {
	activityType := chi.URLParam(r, "activityType")
	log := logger.FromContext(r.Context()).WithField("activity", activityType)

	if err := r.ParseForm(); err != nil {
		log.Warn("invalid AI activity form: %v", err)
		writeJSON(w, r, http.StatusOK, models.GenerateResult{Error: "invalid form data"})
		return
	}

	req := models.GenerateRequest{
		ActivityType: activityType,
		Prompt:       r.PostForm.Get("prompt"),
		Difficulty:   strings.TrimSpace(r.PostForm.Get("difficulty")),
		SourceURL:    strings.TrimSpace(r.PostForm.Get("source_url")),
	}
	if v, err := strconv.Atoi(r.PostForm.Get("amount")); err == nil {
		req.Amount = v
	}

	set, err := s.GenerationService.Generate(r.Context(), req)
	if err != nil {
		msg := err.Error()
		if appErr, ok := errors.As(err); ok {
			msg = appErr.Message
		}
		log.Warn("AI activity failed: %v", err)
		writeJSON(w, r, http.StatusOK, models.GenerateResult{Error: msg})
		return
	}

	log.Info("AI flashcard set created: %s (%d cards)", set.ID, set.CardCount)
	writeJSON(w, r, http.StatusOK, models.GenerateResult{Success: true, RedirectURL: "/flashcards/"})
}
