package api

import (
	"net/http"
	"strconv"

	"github.com/vytor/flashstudy/internal/csrf"
	"github.com/vytor/flashstudy/internal/logger"
	"github.com/vytor/flashstudy/internal/models"
)

const defaultPageSize = 50

func (s *Server) handleListSets(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	q := r.URL.Query()

	filter := models.SetFilter{
		Subject:    q.Get("subject"),
		Difficulty: q.Get("difficulty"),
		Search:     q.Get("q"),
		Limit:      defaultPageSize,
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		filter.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil && v > 0 {
		filter.Offset = v
	}

	sets, total, err := s.SetService.ListSets(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	log.Debug("listed %d of %d sets", len(sets), total)

	if wantsJSON(r) {
		writeJSON(w, r, http.StatusOK, map[string]any{"sets": sets, "total": total})
		return
	}
	s.render(w, r, "sets.html", pageData{
		"title":      "Flashcard sets",
		"sets":       sets,
		"total":      total,
		"csrf_token": csrf.TokenFromContext(r.Context()),
	})
}

func (s *Server) handleCreateSet(w http.ResponseWriter, r *http.Request) {
	var input models.CreateSetInput
	if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}

	set, err := s.SetService.CreateSet(r.Context(), input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, set)
}

func (s *Server) handleGetSet(w http.ResponseWriter, r *http.Request) {
	id, err := setIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	set, err := s.SetService.GetSet(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, set)
}

func (s *Server) handleDeleteSet(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	id, err := setIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.SetService.DeleteSet(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	log.Info("flashcard set deleted: %s", id)

	if wantsJSON(r) {
		writeJSON(w, r, http.StatusOK, map[string]bool{"ok": true})
		return
	}
	http.Redirect(w, r, "/flashcards", http.StatusSeeOther)
}
