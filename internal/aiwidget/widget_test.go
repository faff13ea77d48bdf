package aiwidget_test

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashstudy/internal/aiwidget"
	"github.com/vytor/flashstudy/internal/logger"
	"github.com/vytor/flashstudy/internal/models"
	"github.com/vytor/flashstudy/internal/sessionclient"
	"github.com/vytor/flashstudy/internal/testutil/mocks"
)

type recordingUI struct {
	modal   []bool
	submit  []string
	enabled bool
	alerts  []string
	resets  int
}

func (u *recordingUI) SetModal(open bool) { u.modal = append(u.modal, open) }

func (u *recordingUI) SetSubmit(enabled bool, label string) {
	u.enabled = enabled
	u.submit = append(u.submit, label)
}

func (u *recordingUI) Alert(message string) { u.alerts = append(u.alerts, message) }

func (u *recordingUI) ResetForm() { u.resets++ }

type recordingNav struct {
	urls []string
}

func (n *recordingNav) Navigate(url string) { n.urls = append(n.urls, url) }

func newWidget(p *mocks.MockPoster) (*aiwidget.Widget, *recordingUI, *recordingNav) {
	ui := &recordingUI{}
	nav := &recordingNav{}
	w := aiwidget.New("/create-ai-activity/flashcards", aiwidget.FlashcardPrompt, p, ui, nav).
		WithLogger(logger.Discard())
	return w, ui, nav
}

func TestWidget_SubmitSuccess(t *testing.T) {
	p := &mocks.MockPoster{}
	w, ui, nav := newWidget(p)

	expected := url.Values{
		"topic":      {"photosynthesis"},
		"amount":     {"3"},
		"difficulty": {"Hard"},
		"prompt":     {"photosynthesis"},
		"num_items":  {"3"},
	}
	p.On("PostForm", mock.Anything, "/create-ai-activity/flashcards", expected, mock.Anything).
		Return(models.GenerateResult{Success: true, RedirectURL: "/flashcards/"}, nil).Once()

	w.Open()
	require.True(t, w.IsOpen())

	res := w.Submit(context.Background(), url.Values{
		"topic":      {"photosynthesis"},
		"amount":     {"3"},
		"difficulty": {"Hard"},
	})

	require.NotNil(t, res)
	assert.True(t, res.Success)
	assert.Equal(t, []string{aiwidget.MsgCreated}, ui.alerts)
	assert.Equal(t, []string{aiwidget.LabelBusy, aiwidget.LabelIdle}, ui.submit)
	assert.True(t, ui.enabled)
	assert.Equal(t, 1, ui.resets)
	assert.False(t, w.IsOpen())
	assert.Equal(t, []string{"/flashcards/"}, nav.urls)
	p.AssertExpectations(t)
}

func TestWidget_SubmitRejected(t *testing.T) {
	p := &mocks.MockPoster{}
	w, ui, nav := newWidget(p)
	p.On("PostForm", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(models.GenerateResult{Success: false, Error: "no key"}, nil).Once()

	w.Open()
	res := w.Submit(context.Background(), url.Values{"topic": {"x"}})

	require.NotNil(t, res)
	assert.False(t, res.Success)
	assert.Equal(t, []string{aiwidget.MsgFailed}, ui.alerts)
	assert.True(t, w.IsOpen())
	assert.Zero(t, ui.resets)
	assert.Empty(t, nav.urls)
	assert.Equal(t, aiwidget.LabelIdle, ui.submit[len(ui.submit)-1])
}

func TestWidget_SubmitTransportError(t *testing.T) {
	p := &mocks.MockPoster{}
	w, ui, nav := newWidget(p)
	p.On("PostForm", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection reset")).Once()

	res := w.Submit(context.Background(), url.Values{})

	assert.Nil(t, res)
	assert.Equal(t, []string{aiwidget.MsgUnexpected}, ui.alerts)
	assert.Empty(t, nav.urls)
	assert.True(t, ui.enabled)
}

func TestWidget_SubmitErrorStatus(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		alert   string
		success bool
	}{
		{"json failure body", `{"success":false,"error":"quota exceeded"}`, aiwidget.MsgFailed, false},
		{"plain text body", "Internal Server Error", aiwidget.MsgUnexpected, false},
		{"empty body", "", aiwidget.MsgUnexpected, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &mocks.MockPoster{}
			w, ui, nav := newWidget(p)
			p.On("PostForm", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
				Return(nil, &sessionclient.StatusError{
					Method: "POST",
					Path:   "/create-ai-activity/flashcards",
					Code:   500,
					Body:   []byte(tt.body),
				}).Once()

			w.Open()
			res := w.Submit(context.Background(), url.Values{"topic": {"x"}})

			assert.Equal(t, []string{tt.alert}, ui.alerts)
			assert.Empty(t, nav.urls)
			assert.True(t, w.IsOpen())
			assert.True(t, ui.enabled)
			if tt.alert == aiwidget.MsgFailed {
				require.NotNil(t, res)
				assert.Equal(t, tt.success, res.Success)
				assert.Equal(t, "quota exceeded", res.Error)
			} else {
				assert.Nil(t, res)
			}
		})
	}
}

func TestWidget_NoCountWithoutAmount(t *testing.T) {
	p := &mocks.MockPoster{}
	w, _, _ := newWidget(p)
	p.On("PostForm", mock.Anything, mock.Anything, mock.MatchedBy(func(form url.Values) bool {
		_, hasCount := form["num_items"]
		return form.Get("prompt") == "rivers" && !hasCount
	}), mock.Anything).Return(models.GenerateResult{Success: true}, nil).Once()

	w.Submit(context.Background(), url.Values{"topic": {"rivers"}})

	p.AssertExpectations(t)
}

func TestWidget_BackdropAndClose(t *testing.T) {
	w, ui, _ := newWidget(&mocks.MockPoster{})

	w.Open()
	w.ClickBackdrop(false)
	assert.True(t, w.IsOpen())
	w.ClickBackdrop(true)
	assert.False(t, w.IsOpen())
	w.Open()
	w.Close()
	assert.Equal(t, []bool{true, false, true, false}, ui.modal)
}
