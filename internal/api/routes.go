package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	pageTimeout       = 30 * time.Second
	generationTimeout = 2 * time.Minute
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(middleware.StripSlashes)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Group(func(r chi.Router) {
		r.Use(s.csrfMiddleware())

		r.Group(func(r chi.Router) {
			r.Use(timeoutMiddleware(pageTimeout))

			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, "/flashcards", http.StatusSeeOther)
			})
			r.Get("/flashcards", s.handleListSets)
			r.Post("/flashcards", s.handleCreateSet)
			r.Get("/flashcards/{setID}", s.handleGetSet)
			r.Post("/flashcards/{setID}/delete", s.handleDeleteSet)
			r.Get("/flashcards/{setID}/take", s.handleTakeSet)
			r.Get("/flashcards/{setID}/summary", s.handleSummary)

			r.Post("/answer-flashcard-ajax/{setID}", s.handleAnswerAjax)
			r.Post("/flashcard-nav-ajax/{setID}", s.handleNavAjax)
			r.Post("/reset-flashcards-ajax/{setID}", s.handleResetAjax)
			r.Post("/answer-flashcard/{setID}/{action}", s.handleAnswer)
		})

		r.With(timeoutMiddleware(generationTimeout)).
			Post("/create-ai-activity/{activityType}", s.handleCreateAIActivity)
	})

	return r
}
