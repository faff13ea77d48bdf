// Package sessionclient talks to the flashstudy server on behalf of the
// terminal client: it loads the study bundle and echoes session events back.
package sessionclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/vytor/flashstudy/internal/csrf"
	"github.com/vytor/flashstudy/internal/logger"
	"github.com/vytor/flashstudy/internal/models"
	"github.com/vytor/flashstudy/internal/study"
)

// ErrUnexpectedStatus wraps any non-2xx response.
var ErrUnexpectedStatus = errors.New("unexpected response status")

const maxErrorBody = 64 << 10

// StatusError is a non-2xx response. It matches ErrUnexpectedStatus.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: %s %s: %d: %s", ErrUnexpectedStatus, e.Method, e.Path, e.Code, strings.TrimSpace(string(e.Body)))
}

func (e *StatusError) Is(target error) bool { return target == ErrUnexpectedStatus }

// ResponseBody returns the body the server sent with the error status.
func (e *StatusError) ResponseBody() []byte { return e.Body }

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	token      string
	log        *logger.Logger
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l.WithPrefix("session-client") }
}

// New creates a client for the server at baseURL. Cookies, including the
// CSRF cookie, persist for the client's lifetime.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: 15 * time.Second, Jar: jar},
		log:        logger.Default().WithPrefix("session-client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CSRFToken reads the token cookie from the jar, falling back to the token
// the page bundle carried.
func (c *Client) CSRFToken() string {
	parts := make([]string, 0, 4)
	for _, ck := range c.httpClient.Jar.Cookies(c.baseURL) {
		parts = append(parts, ck.Name+"="+ck.Value)
	}
	if token := csrf.FromCookieHeader(strings.Join(parts, "; ")); token != "" {
		return token
	}
	return c.token
}

// Prime fetches the set listing so the server issues a CSRF cookie before
// the first mutating request.
func (c *Client) Prime(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve("/flashcards"), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if _, err := c.do(req); err != nil {
		c.log.Error("failed to prime session: %v", err)
		return err
	}
	return nil
}

// FetchBootstrap loads the study bundle for a set. The request also primes
// the CSRF cookie.
func (c *Client) FetchBootstrap(ctx context.Context, setID string) (study.Bootstrap, error) {
	log := c.log.WithField("set_id", setID)
	path := "/flashcards/" + url.PathEscape(setID) + "/take"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(path), nil)
	if err != nil {
		return study.Bootstrap{}, err
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		log.Error("failed to fetch study bundle: %v", err)
		return study.Bootstrap{}, err
	}

	boot, err := study.ParseBootstrap(body)
	if err != nil {
		log.Error("invalid study bundle: %v", err)
		return study.Bootstrap{}, err
	}
	c.token = boot.CSRFToken

	log.Info("loaded %d cards (study=%t, start=%d)", len(boot.Cards), boot.StudyMode, boot.StartIndex)
	return boot, nil
}

// Syncer returns a study.Syncer bound to the bundle's endpoints.
func (c *Client) Syncer(boot study.Bootstrap) *Syncer {
	return &Syncer{client: c, resetURL: boot.ResetURL, answerURL: boot.AnswerURL}
}

// PostForm sends form-encoded data and decodes the JSON result.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve(path), strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.send(req, out)
}

// PostJSON sends body as JSON and decodes the JSON result into out, if given.
func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve(path), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	if token := c.CSRFToken(); token != "" {
		req.Header.Set(csrf.HeaderName, token)
	}

	body, err := c.do(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	log := c.log.WithFields(map[string]any{"method": req.Method, "path": req.URL.Path})
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	log.Debug("response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Method: req.Method, Path: req.URL.Path, Code: resp.StatusCode, Body: body}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", req.URL.Path, err)
	}
	return body, nil
}

// resolve joins a server path or absolute URL onto the base URL.
func (c *Client) resolve(ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return c.baseURL.String() + ref
	}
	return c.baseURL.ResolveReference(u).String()
}

// Syncer implements study.Syncer over HTTP.
type Syncer struct {
	client    *Client
	resetURL  string
	answerURL string
}

var _ study.Syncer = (*Syncer)(nil)

func (s *Syncer) ResetSession(ctx context.Context, mode models.Mode) error {
	var ack struct {
		OK   bool   `json:"ok"`
		Mode string `json:"mode"`
	}
	if err := s.client.PostJSON(ctx, s.resetURL, map[string]string{"mode": string(mode)}, &ack); err != nil {
		return err
	}
	s.client.log.Debug("server session reset: ok=%t mode=%s", ack.OK, ack.Mode)
	return nil
}

func (s *Syncer) SubmitResults(ctx context.Context, results models.SessionSummary) (*study.ResultsAck, error) {
	var ack study.ResultsAck
	if err := s.client.PostJSON(ctx, s.answerURL, results, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}
