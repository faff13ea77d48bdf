package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/vytor/flashstudy/internal/models"
)

// MockProgressRepository is a mock implementation of repository.ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) Get(ctx context.Context, setID uuid.UUID) (*models.SetProgress, error) {
	args := m.Called(ctx, setID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SetProgress), args.Error(1)
}

func (m *MockProgressRepository) Save(ctx context.Context, progress models.SetProgress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MockProgressRepository) Delete(ctx context.Context, setID uuid.UUID) error {
	args := m.Called(ctx, setID)
	return args.Error(0)
}
