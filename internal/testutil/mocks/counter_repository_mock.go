package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/lute/internal/models"
)

// MockCounterRepository is a mock implementation of repository.CounterRepository
type MockCounterRepository struct {
	mock.Mock
}

func (m *MockCounterRepository) Get(ctx context.Context, key, date string) (int, error) {
	args := m.Called(ctx, key, date)
	return args.Int(0), args.Error(1)
}

func (m *MockCounterRepository) Increment(ctx context.Context, key, date string) (int, error) {
	args := m.Called(ctx, key, date)
	return args.Int(0), args.Error(1)
}

func (m *MockCounterRepository) GetStreak(ctx context.Context) (models.Streak, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Streak), args.Error(1)
}

func (m *MockCounterRepository) SaveStreak(ctx context.Context, s models.Streak) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}
