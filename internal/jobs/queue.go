package jobs

import "github.com/vytor/lute/internal/models"

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	EnqueueReview(entry models.ReviewHistory) error
}
