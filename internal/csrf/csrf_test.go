package csrf_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashstudy/internal/csrf"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(csrf.TokenFromContext(r.Context())))
	})
}

func TestMiddleware_IssuesTokenOnSafeRequest(t *testing.T) {
	h := csrf.Middleware(csrf.Config{})(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/flashcards", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, csrf.CookieName, cookies[0].Name)
	assert.False(t, cookies[0].HttpOnly)
	assert.Equal(t, cookies[0].Value, rec.Body.String())
}

func TestMiddleware_UnsafeRequests(t *testing.T) {
	h := csrf.Middleware(csrf.Config{})(okHandler())
	cookie := &http.Cookie{Name: csrf.CookieName, Value: "tok123"}

	tests := []struct {
		name   string
		build  func() *http.Request
		status int
	}{
		{
			name: "matching header",
			build: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/reset-flashcards-ajax/x", strings.NewReader(`{}`))
				r.AddCookie(cookie)
				r.Header.Set(csrf.HeaderName, "tok123")
				return r
			},
			status: http.StatusOK,
		},
		{
			name: "matching form field",
			build: func() *http.Request {
				form := url.Values{csrf.FormField: {"tok123"}}
				r := httptest.NewRequest(http.MethodPost, "/answer-flashcard/x/know", strings.NewReader(form.Encode()))
				r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				r.AddCookie(cookie)
				return r
			},
			status: http.StatusOK,
		},
		{
			name: "wrong header",
			build: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/reset-flashcards-ajax/x", nil)
				r.AddCookie(cookie)
				r.Header.Set(csrf.HeaderName, "other")
				return r
			},
			status: http.StatusForbidden,
		},
		{
			name: "no cookie",
			build: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/reset-flashcards-ajax/x", nil)
				r.Header.Set(csrf.HeaderName, "tok123")
				return r
			},
			status: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, tt.build())
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestMiddleware_OnReject(t *testing.T) {
	called := false
	h := csrf.Middleware(csrf.Config{OnReject: func(*http.Request) { called = true }})(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/x", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.True(t, called)
}

func TestFromCookieHeader(t *testing.T) {
	assert.Equal(t, "abc", csrf.FromCookieHeader("csrftoken=abc"))
	assert.Equal(t, "abc", csrf.FromCookieHeader("session=zzz; csrftoken=abc; theme=dark"))
	assert.Equal(t, "", csrf.FromCookieHeader("xcsrftoken=abc"))
	assert.Equal(t, "", csrf.FromCookieHeader(""))
}

func TestEqual(t *testing.T) {
	assert.True(t, csrf.Equal("a", "a"))
	assert.False(t, csrf.Equal("a", "b"))
	assert.False(t, csrf.Equal("", ""))
}
