package mocks

import (
	"context"
	"net/url"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/flashstudy/internal/models"
)

// MockPoster is a mock implementation of aiwidget.Poster. A GenerateResult
// returned from the expectation is copied into out.
type MockPoster struct {
	mock.Mock
}

func (m *MockPoster) PostForm(ctx context.Context, path string, form url.Values, out any) error {
	args := m.Called(ctx, path, form, out)
	if res, ok := args.Get(0).(models.GenerateResult); ok {
		if dst, ok := out.(*models.GenerateResult); ok {
			*dst = res
		}
	}
	return args.Error(1)
}
