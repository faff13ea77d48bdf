package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/flashstudy/internal/models"
)

// MockGenerator is a mock implementation of generate.Generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, req models.GenerateRequest, sourceText string) (models.GeneratedSet, models.GenerationUsage, error) {
	args := m.Called(ctx, req, sourceText)
	return args.Get(0).(models.GeneratedSet), args.Get(1).(models.GenerationUsage), args.Error(2)
}

// MockSourceFetcher is a mock implementation of generate.SourceFetcher
type MockSourceFetcher struct {
	mock.Mock
}

func (m *MockSourceFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	args := m.Called(ctx, rawURL)
	return args.String(0), args.Error(1)
}
