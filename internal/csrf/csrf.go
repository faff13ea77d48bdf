// Package csrf implements double-submit cookie protection: the server issues
// a token cookie, and mutating requests echo it back in a header or form field.
package csrf

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"io"
	"net/http"
	"regexp"
	"time"
)

const (
	CookieName = "csrftoken"
	HeaderName = "X-CSRFToken"
	FormField  = "csrfmiddlewaretoken"
)

type contextKey string

const tokenContextKey contextKey = "csrf.token"

// Config controls cookie and header behaviour. Zero values use the package
// defaults.
type Config struct {
	CookieName string
	HeaderName string
	MaxAge     time.Duration
	Secure     bool
	// OnReject is called before a 403 is written.
	OnReject func(r *http.Request)
}

// Middleware issues a token on every request that lacks one and rejects
// unsafe requests whose header (or form field) does not match the cookie.
// The cookie is readable by scripts since clients copy it into the header.
func Middleware(cfg Config) func(http.Handler) http.Handler {
	cookieName := cfg.CookieName
	if cookieName == "" {
		cookieName = CookieName
	}
	headerName := cfg.HeaderName
	if headerName == "" {
		headerName = HeaderName
	}
	maxAge := cfg.MaxAge
	if maxAge == 0 {
		maxAge = 365 * 24 * time.Hour
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, issued, err := ensureToken(w, r, cookieName, maxAge, cfg.Secure)
			if err != nil {
				http.Error(w, "csrf token error", http.StatusInternalServerError)
				return
			}

			if isUnsafeMethod(r.Method) {
				submitted := r.Header.Get(headerName)
				if submitted == "" {
					submitted = r.PostFormValue(FormField)
				}
				if issued || !Equal(submitted, token) {
					if cfg.OnReject != nil {
						cfg.OnReject(r)
					}
					http.Error(w, "CSRF verification failed", http.StatusForbidden)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), token)))
		})
	}
}

// NewContext stores the request token.
func NewContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey, token)
}

// TokenFromContext returns the token issued for the current request, for
// embedding in pages.
func TokenFromContext(ctx context.Context) string {
	if token, ok := ctx.Value(tokenContextKey).(string); ok {
		return token
	}
	return ""
}

// Equal compares tokens in constant time. Empty tokens never match.
func Equal(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

var cookiePattern = regexp.MustCompile(`(?:^|;\s*)` + CookieName + `=([^;]*)`)

// FromCookieHeader pulls the token out of a raw Cookie header value.
func FromCookieHeader(header string) string {
	m := cookiePattern.FindStringSubmatch(header)
	if m == nil {
		return ""
	}
	return m[1]
}

func ensureToken(w http.ResponseWriter, r *http.Request, name string, maxAge time.Duration, secure bool) (string, bool, error) {
	if c, err := r.Cookie(name); err == nil && c.Value != "" {
		return c.Value, false, nil
	}

	token, err := generateToken(32)
	if err != nil {
		return "", false, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		Secure:   secure || r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(maxAge.Seconds()),
	})
	return token, true, nil
}

func generateToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func isUnsafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	default:
		return true
	}
}
