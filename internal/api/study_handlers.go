package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/flashstudy/internal/csrf"
	"github.com/vytor/flashstudy/internal/errors"
	"github.com/vytor/flashstudy/internal/logger"
	"github.com/vytor/flashstudy/internal/models"
	"github.com/vytor/flashstudy/internal/study"
)

func (s *Server) handleTakeSet(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	id, err := setIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	session, err := s.StudyService.StartSession(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	token := csrf.TokenFromContext(r.Context())
	card := session.Cards[session.StartIndex]
	boot := study.Bootstrap{
		Cards:       session.Cards,
		InitialCard: &card,
		StartIndex:  session.StartIndex,
		TotalCards:  len(session.Cards),
		StudyMode:   session.Mode == models.ModeStudy,
		CSRFToken:   token,
		ResetURL:    "/reset-flashcards-ajax/" + id.String(),
		AnswerURL:   "/answer-flashcard-ajax/" + id.String(),
		ExitURL:     "/flashcards",
	}
	log.Debug("study page: set_id=%s mode=%s start=%d", id, session.Mode, session.StartIndex)

	if wantsJSON(r) {
		writeJSON(w, r, http.StatusOK, boot)
		return
	}
	s.render(w, r, "take.html", pageData{
		"title":      session.Set.Title,
		"set":        session.Set,
		"card":       card,
		"bootstrap":  boot,
		"csrf_token": token,
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
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

	fromSession, err := s.popSummary(w, r)
	if err != nil {
		log.Warn("failed to read session summary: %v", err)
	}

	report, err := s.StudyService.Summary(r.Context(), id, fromSession)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if wantsJSON(r) {
		writeJSON(w, r, http.StatusOK, report)
		return
	}
	s.render(w, r, "summary.html", pageData{
		"title":      set.Title,
		"set":        set.FlashcardSet,
		"summary":    report,
		"csrf_token": csrf.TokenFromContext(r.Context()),
	})
}

// handleAnswerAjax stores the client's final tally for the summary page.
func (s *Server) handleAnswerAjax(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	id, err := setIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var results models.SessionSummary
	if err := decodeJSON(r, &results); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.StudyService.RecordResults(r.Context(), id, results); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.saveSummary(w, r, results); err != nil {
		log.Error("failed to store session summary: %v", err)
		handleError(w, r, errors.NewInternalError(err))
		return
	}

	writeJSON(w, r, http.StatusOK, study.ResultsAck{
		Completed: true,
		Known:     results.Known,
		NotKnown:  results.NotKnown,
		Total:     results.Total,
	})
}

func (s *Server) handleNavAjax(w http.ResponseWriter, r *http.Request) {
	id, err := setIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var body struct {
		Direction    models.Direction `json:"direction"`
		CurrentIndex int              `json:"current_index"`
	}
	if err := decodeJSON(r, &body); err != nil {
		handleError(w, r, err)
		return
	}

	res, err := s.StudyService.Navigate(r.Context(), id, body.Direction, body.CurrentIndex)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) handleResetAjax(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	id, err := setIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var body struct {
		Mode string `json:"mode"`
	}
	if err := decodeJSON(r, &body); err != nil {
		handleError(w, r, err)
		return
	}
	mode := models.ModeRegular
	if strings.TrimSpace(body.Mode) != "" {
		if mode, err = models.ParseMode(body.Mode); err != nil {
			handleError(w, r, errors.NewValidationError("mode", err.Error()))
			return
		}
	}

	if err := s.StudyService.ResetProgress(r.Context(), id, mode); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.clearSummary(w, r); err != nil {
		log.Warn("failed to clear session summary: %v", err)
	}

	log.Info("study progress reset: set_id=%s mode=%s", id, mode)
	writeJSON(w, r, http.StatusOK, map[string]any{"ok": true, "mode": mode})
}

// handleAnswer is the form fallback for study mode when scripts are off.
func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	id, err := setIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	outcome := models.Outcome(chi.URLParam(r, "action"))

	res, err := s.StudyService.AnswerCard(r.Context(), id, outcome)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if !res.Completed {
		http.Redirect(w, r, takeURL(id), http.StatusSeeOther)
		return
	}
	if err := s.saveSummary(w, r, res.Summary); err != nil {
		log.Error("failed to store session summary: %v", err)
	}
	http.Redirect(w, r, summaryURL(id), http.StatusSeeOther)
}
