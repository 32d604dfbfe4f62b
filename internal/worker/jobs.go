package worker

import (
	"context"
	"fmt"

	"github.com/vytor/lute/internal/logger"
	"github.com/vytor/lute/internal/models"
	"github.com/vytor/lute/internal/repository"
)

// RecordReviewJob appends one graded review to the history table.
type RecordReviewJob struct {
	Repo  repository.HistoryRepository
	Entry models.ReviewHistory
}

func (j *RecordReviewJob) Name() string { return "record_review" }

func (j *RecordReviewJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"card_id": j.Entry.CardID,
		"deck_id": j.Entry.DeckID,
	})

	id, err := j.Repo.Insert(ctx, j.Entry)
	if err != nil {
		return fmt.Errorf("record review for card %s: %w", j.Entry.CardID, err)
	}
	log.Debug("recorded review %d: grade=%s", id, j.Entry.Grade)
	return nil
}
