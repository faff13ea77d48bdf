package api

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/vytor/flashstudy/internal/logger"
	"github.com/vytor/flashstudy/internal/services"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	DB                Pinger
	SetService        services.SetService
	StudyService      services.StudyService
	GenerationService services.GenerationService
	Sessions          sessions.Store
	Templates         *template.Template
	SecureCookies     bool
}

type pageData map[string]any

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	if data == nil {
		data = pageData{}
	}

	log := logger.FromContext(r.Context())
	if s.Templates == nil {
		log.Error("no templates loaded, cannot render %s", name)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.Templates.ExecuteTemplate(w, name, data); err != nil {
		log.Error("failed to render template %s: %v", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode JSON response: %v", err)
	}
}
