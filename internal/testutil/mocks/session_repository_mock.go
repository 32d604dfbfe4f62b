package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/lute/internal/models"
)

// MockSessionRepository is a mock implementation of repository.SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Get(ctx context.Context, mode models.ReviewMode, deckID string) ([]byte, error) {
	args := m.Called(ctx, mode, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockSessionRepository) Save(ctx context.Context, mode models.ReviewMode, deckID string, data []byte, updatedAt int64) error {
	args := m.Called(ctx, mode, deckID, data, updatedAt)
	return args.Error(0)
}

func (m *MockSessionRepository) Delete(ctx context.Context, mode models.ReviewMode, deckID string) error {
	args := m.Called(ctx, mode, deckID)
	return args.Error(0)
}

func (m *MockSessionRepository) List(ctx context.Context) ([]models.SessionRef, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SessionRef), args.Error(1)
}
