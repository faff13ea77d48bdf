package api

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/vytor/flashstudy/internal/logger"
	"github.com/vytor/flashstudy/internal/models"
)

const (
	sessionName       = "flashstudy"
	summarySessionKey = "flashcard_summary"
)

func init() {
	gob.Register(models.SessionSummary{})
}

// NewSessionStore returns the cookie store used for per-visitor summaries.
func NewSessionStore(secret []byte, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// session returns the visitor's session. A cookie that fails to decode is
// replaced by a fresh session.
func (s *Server) session(r *http.Request) *sessions.Session {
	sess, err := s.Sessions.Get(r, sessionName)
	if err != nil {
		logger.FromContext(r.Context()).Warn("discarding unreadable session: %v", err)
	}
	return sess
}

func (s *Server) saveSummary(w http.ResponseWriter, r *http.Request, summary models.SessionSummary) error {
	sess := s.session(r)
	sess.Values[summarySessionKey] = summary
	return sess.Save(r, w)
}

// popSummary removes and returns the stored summary, if any.
func (s *Server) popSummary(w http.ResponseWriter, r *http.Request) (*models.SessionSummary, error) {
	sess := s.session(r)
	v, ok := sess.Values[summarySessionKey]
	if !ok {
		return nil, nil
	}
	delete(sess.Values, summarySessionKey)
	if err := sess.Save(r, w); err != nil {
		return nil, err
	}
	summary, ok := v.(models.SessionSummary)
	if !ok {
		return nil, nil
	}
	return &summary, nil
}

func (s *Server) clearSummary(w http.ResponseWriter, r *http.Request) error {
	sess := s.session(r)
	if _, ok := sess.Values[summarySessionKey]; !ok {
		return nil
	}
	delete(sess.Values, summarySessionKey)
	return sess.Save(r, w)
}
