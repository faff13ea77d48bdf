package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	apperrors "github.com/vytor/flashstudy/internal/errors"
	"github.com/vytor/flashstudy/internal/models"
	"github.com/vytor/flashstudy/internal/services"
	"github.com/vytor/flashstudy/internal/testutil/mocks"
)

func TestSetService_CreateSet(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.MockSetRepository{}
	svc := services.NewSetService(repo)
	id := uuid.New()

	repo.On("Create", mock.Anything, models.FlashcardSet{Title: "Capitals", Subject: "General", Difficulty: "Medium"},
		[]models.Card{{Front: "France", Back: "Paris"}}).Return(id, nil).Once()

	set, err := svc.CreateSet(ctx, models.CreateSetInput{
		Title: "  Capitals ",
		Cards: []models.Card{{Front: " France", Back: "Paris "}},
	})
	require.NoError(t, err)
	assert.Equal(t, id, set.ID)
	assert.Equal(t, 1, set.CardCount)
	repo.AssertExpectations(t)
}

func TestSetService_CreateSetValidation(t *testing.T) {
	svc := services.NewSetService(&mocks.MockSetRepository{})

	tests := []struct {
		name  string
		input models.CreateSetInput
	}{
		{"no title", models.CreateSetInput{Cards: []models.Card{{Front: "a", Back: "b"}}}},
		{"no cards", models.CreateSetInput{Title: "t"}},
		{"blank back", models.CreateSetInput{Title: "t", Cards: []models.Card{{Front: "a", Back: " "}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateSet(context.Background(), tt.input)
			appErr, ok := apperrors.As(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
		})
	}
}

func TestSetService_ListAndGet(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.MockSetRepository{}
	svc := services.NewSetService(repo)
	id := uuid.New()
	filter := models.SetFilter{Subject: "Biology"}

	repo.On("List", mock.Anything, filter).Return([]models.FlashcardSet{{ID: id, Title: "Cells"}}, nil).Once()
	repo.On("Count", mock.Anything, filter).Return(1, nil).Once()
	repo.On("Get", mock.Anything, id).Return(&models.FlashcardSet{ID: id, Title: "Cells"}, nil).Once()
	repo.On("Cards", mock.Anything, id).Return([]models.Flashcard{{SetID: id, Front: "a", Back: "b"}}, nil).Once()

	sets, total, err := svc.ListSets(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, sets, 1)
	assert.Equal(t, 1, total)

	set, err := svc.GetSet(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []models.Card{{Front: "a", Back: "b"}}, set.StudyCards())
	repo.AssertExpectations(t)
}

func TestSetService_Errors(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.MockSetRepository{}
	svc := services.NewSetService(repo)
	missing := uuid.New()
	broken := uuid.New()

	repo.On("Get", mock.Anything, missing).Return(nil, nil)
	repo.On("Get", mock.Anything, broken).Return(nil, errors.New("locked"))

	_, err := svc.GetSet(ctx, missing)
	assert.True(t, apperrors.IsNotFound(err))
	assert.True(t, apperrors.IsNotFound(svc.DeleteSet(ctx, missing)))

	_, err = svc.GetSet(ctx, broken)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeInternal, appErr.Code)
}
