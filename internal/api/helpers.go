package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vytor/flashstudy/internal/errors"
)

const maxJSONBody = 1 << 20

// wantsJSON reports whether the caller asked for JSON instead of a page.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func setIDParam(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "setID")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.NewBadRequestError("invalid flashcard set ID")
	}
	return id, nil
}

// decodeJSON reads a JSON object body. An empty or malformed body is a bad
// request.
func decodeJSON(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxJSONBody))
	if err != nil {
		return errors.NewBadRequestError("could not read request body")
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return errors.NewBadRequestError("invalid request body")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.NewBadRequestError("invalid data format")
	}
	return nil
}

func takeURL(id uuid.UUID) string    { return "/flashcards/" + id.String() + "/take" }
func summaryURL(id uuid.UUID) string { return "/flashcards/" + id.String() + "/summary" }
