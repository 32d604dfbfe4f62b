package mocks

import (
	"github.com/stretchr/testify/mock"
	"github.com/vytor/lute/internal/models"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueReview(entry models.ReviewHistory) error {
	args := m.Called(entry)
	return args.Error(0)
}
