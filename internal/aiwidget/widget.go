// Package aiwidget drives the "generate with AI" modal: it collects the form,
// adds the generated prompt, submits it and follows the redirect on success.
package aiwidget

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"sync"

	"github.com/vytor/flashstudy/internal/logger"
	"github.com/vytor/flashstudy/internal/models"
)

const (
	MsgCreated    = "AI Flashcards created!"
	MsgFailed     = "Error creating AI flashcards."
	MsgUnexpected = "Unexpected error occurred."

	LabelIdle = "Generate"
	LabelBusy = "Generating..."

	defaultCountKey = "num_items"
)

// UI is the modal surface.
type UI interface {
	SetModal(open bool)
	SetSubmit(enabled bool, label string)
	Alert(message string)
	ResetForm()
}

// Poster sends the form. *sessionclient.Client satisfies it.
type Poster interface {
	PostForm(ctx context.Context, path string, form url.Values, out any) error
}

// Navigator follows the redirect after success.
type Navigator interface {
	Navigate(url string)
}

// Prompt is what a PromptBuilder derives from the form. Count is appended
// under CountKey (default "num_items") when positive.
type Prompt struct {
	Text     string
	Count    int
	CountKey string
}

type PromptBuilder func(form url.Values) Prompt

// FlashcardPrompt builds the prompt for the flashcard generator from the
// topic and amount fields.
func FlashcardPrompt(form url.Values) Prompt {
	count, _ := strconv.Atoi(form.Get("amount"))
	return Prompt{Text: form.Get("topic"), Count: count}
}

type Widget struct {
	mu     sync.Mutex
	open   bool
	busy   bool
	apiURL string
	build  PromptBuilder
	poster Poster
	ui     UI
	nav    Navigator
	log    *logger.Logger
}

func New(apiURL string, build PromptBuilder, poster Poster, ui UI, nav Navigator) *Widget {
	return &Widget{
		apiURL: apiURL,
		build:  build,
		poster: poster,
		ui:     ui,
		nav:    nav,
		log:    logger.Default().WithPrefix("ai-widget"),
	}
}

func (w *Widget) WithLogger(l *logger.Logger) *Widget {
	w.log = l.WithPrefix("ai-widget")
	return w
}

func (w *Widget) Open() { w.setOpen(true) }

func (w *Widget) Close() { w.setOpen(false) }

// ClickBackdrop closes the modal when the click landed on the modal container.
func (w *Widget) ClickBackdrop(onContainer bool) {
	if onContainer {
		w.setOpen(false)
	}
}

func (w *Widget) IsOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.open
}

func (w *Widget) setOpen(open bool) {
	w.mu.Lock()
	w.open = open
	w.mu.Unlock()
	w.ui.SetModal(open)
}

// Submit posts form plus the built prompt and reports the outcome through
// the UI. It returns the decoded result, or nil when the call itself failed.
// A second Submit while one is in flight is ignored.
func (w *Widget) Submit(ctx context.Context, form url.Values) *models.GenerateResult {
	w.mu.Lock()
	if w.busy {
		w.mu.Unlock()
		return nil
	}
	w.busy = true
	w.mu.Unlock()

	data := url.Values{}
	for k, v := range form {
		data[k] = append([]string(nil), v...)
	}
	prompt := w.build(form)
	data.Add("prompt", prompt.Text)
	if prompt.Count > 0 {
		key := prompt.CountKey
		if key == "" {
			key = defaultCountKey
		}
		data.Add(key, strconv.Itoa(prompt.Count))
	}

	w.ui.SetSubmit(false, LabelBusy)
	defer func() {
		w.ui.SetSubmit(true, LabelIdle)
		w.mu.Lock()
		w.busy = false
		w.mu.Unlock()
	}()

	var result models.GenerateResult
	if err := w.poster.PostForm(ctx, w.apiURL, data, &result); err != nil {
		if !decodeErrorBody(err, &result) {
			w.log.Error("generation request failed: %v", err)
			w.ui.Alert(MsgUnexpected)
			return nil
		}
		w.log.Warn("generation request returned an error status: %v", err)
	}

	if !result.Success {
		w.log.Warn("generation rejected: %s", result.Error)
		w.ui.Alert(MsgFailed)
		return &result
	}

	w.ui.Alert(MsgCreated)
	w.ui.ResetForm()
	w.setOpen(false)
	if result.RedirectURL != "" {
		w.nav.Navigate(result.RedirectURL)
	}
	return &result
}

// bodyError is a Poster error that still carries the response body, such as
// a non-2xx status.
type bodyError interface {
	ResponseBody() []byte
}

func decodeErrorBody(err error, out *models.GenerateResult) bool {
	var be bodyError
	if !errors.As(err, &be) {
		return false
	}
	return json.Unmarshal(be.ResponseBody(), out) == nil
}
