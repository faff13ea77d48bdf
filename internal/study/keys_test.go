package study_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashstudy/internal/models"
	"github.com/vytor/flashstudy/internal/study"
)

func TestHandleKey_InertWithModifiersOrTextFocus(t *testing.T) {
	tests := []struct {
		name string
		ev   study.KeyEvent
	}{
		{"text input", study.KeyEvent{Key: study.KeyKnown, InTextInput: true}},
		{"ctrl", study.KeyEvent{Key: study.KeyKnown, Ctrl: true}},
		{"meta", study.KeyEvent{Key: study.KeyKnown, Meta: true}},
		{"alt", study.KeyEvent{Key: study.KeyKnown, Alt: true}},
		{"space in text input", study.KeyEvent{Key: study.KeySpace, InTextInput: true}},
		{"help with ctrl", study.KeyEvent{Key: study.KeyHelp, Ctrl: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 3, models.ModeStudy)

			assert.False(t, f.ctrl.HandleKey(tt.ev))

			st := f.ctrl.State()
			assert.Zero(t, st.Index)
			assert.Zero(t, st.Stats.Answered())
			assert.False(t, st.Flipped)
			assert.False(t, st.HelpOpen)
		})
	}
}

func TestHandleKey_ModeGating(t *testing.T) {
	studying := newFixture(t, 3, models.ModeStudy)
	assert.False(t, studying.ctrl.HandleKey(study.KeyEvent{Key: study.KeyArrowRight}))
	assert.Zero(t, studying.ctrl.State().Index)

	regular := newFixture(t, 3, models.ModeRegular)
	assert.False(t, regular.ctrl.HandleKey(study.KeyEvent{Key: study.KeyKnown}))
	assert.False(t, regular.ctrl.HandleKey(study.KeyEvent{Key: study.KeyNotKnown}))
	assert.Zero(t, regular.ctrl.State().Stats.Answered())
}

func TestHandleKey_SpaceFlips(t *testing.T) {
	f := newFixture(t, 2, models.ModeStudy)

	assert.True(t, f.ctrl.HandleKey(study.KeyEvent{Key: study.KeySpace}))
	assert.True(t, f.ctrl.State().Flipped)
	assert.True(t, f.ctrl.HandleKey(study.KeyEvent{Key: study.KeySpace}))
	assert.False(t, f.ctrl.State().Flipped)
}

func TestHandleKey_UnknownKey(t *testing.T) {
	f := newFixture(t, 2, models.ModeStudy)
	assert.False(t, f.ctrl.HandleKey(study.KeyEvent{Key: "x"}))
}

func TestParseBootstrap(t *testing.T) {
	raw := []byte(`{
		"allFlashcards": [{"front": "a", "back": "b"}, {"front": "c", "back": "d"}],
		"initialCard": {"front": "a", "back": "b"},
		"startIndex": 1,
		"totalCards": 2,
		"studyModeInitial": true,
		"csrfToken": "tok",
		"resetUrl": "/reset-flashcards-ajax/x",
		"answerUrl": "/answer-flashcard-ajax/x",
		"exitUrl": "/flashcards/x"
	}`)

	boot, err := study.ParseBootstrap(raw)
	require.NoError(t, err)

	assert.Len(t, boot.Cards, 2)
	assert.Equal(t, 1, boot.Start())
	assert.Equal(t, 2, boot.Total())
	assert.Equal(t, models.ModeStudy, boot.Mode())
	assert.Equal(t, "tok", boot.CSRFToken)
	assert.Equal(t, "/reset-flashcards-ajax/x", boot.ResetURL)
	assert.Equal(t, "/answer-flashcard-ajax/x", boot.AnswerURL)
	assert.Equal(t, "/flashcards/x", boot.ExitURL)
}

func TestParseBootstrap_Errors(t *testing.T) {
	_, err := study.ParseBootstrap([]byte(`{"allFlashcards": []}`))
	assert.ErrorIs(t, err, study.ErrEmptyDeck)

	_, err = study.ParseBootstrap([]byte(`{not json`))
	assert.Error(t, err)
}

func TestBootstrap_TotalFallsBackToCardCount(t *testing.T) {
	boot := study.Bootstrap{Cards: make([]models.Card, 3), TotalCards: 10, StartIndex: -4}
	assert.Equal(t, 3, boot.Total())
	assert.Equal(t, 0, boot.Start())
}

func TestSummaryText(t *testing.T) {
	assert.Equal(t, "Done! Known: 2, Not known: 7", study.SummaryText(2, 7))
}
