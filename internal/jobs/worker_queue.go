package jobs

import (
	"github.com/vytor/lute/internal/models"
	"github.com/vytor/lute/internal/repository"
	"github.com/vytor/lute/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	historyPool *worker.Pool
	historyRepo repository.HistoryRepository
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(historyPool *worker.Pool, historyRepo repository.HistoryRepository) JobQueue {
	return &WorkerQueue{
		historyPool: historyPool,
		historyRepo: historyRepo,
	}
}

// EnqueueReview never blocks a review: a full queue drops the entry and
// reports worker.ErrQueueFull.
func (q *WorkerQueue) EnqueueReview(entry models.ReviewHistory) error {
	return q.historyPool.TrySubmit(&worker.RecordReviewJob{
		Repo:  q.historyRepo,
		Entry: entry,
	})
}
