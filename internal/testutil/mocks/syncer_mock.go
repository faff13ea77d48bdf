package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/flashstudy/internal/models"
	"github.com/vytor/flashstudy/internal/study"
)

// MockSyncer is a mock implementation of study.Syncer
type MockSyncer struct {
	mock.Mock
}

func (m *MockSyncer) ResetSession(ctx context.Context, mode models.Mode) error {
	args := m.Called(ctx, mode)
	return args.Error(0)
}

func (m *MockSyncer) SubmitResults(ctx context.Context, results models.SessionSummary) (*study.ResultsAck, error) {
	args := m.Called(ctx, results)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*study.ResultsAck), args.Error(1)
}
