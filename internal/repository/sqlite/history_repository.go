package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/lute/internal/logger"
	"github.com/vytor/lute/internal/models"
	"github.com/vytor/lute/internal/repository"
)

type historyRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new HistoryRepository implementation
func NewHistoryRepository(db *sql.DB) repository.HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Insert(ctx context.Context, h models.ReviewHistory) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("inserting review history: card_id=%s, grade=%s, time=%.2fs", h.CardID, h.Grade, h.TimeSeconds)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO review_history (card_id, deck_id, grade, time_seconds, reviewed_at)
VALUES (?, ?, ?, ?, ?)
`, h.CardID, h.DeckID, h.Grade, h.TimeSeconds, h.ReviewedAt.UTC())
	if err != nil {
		log.Error("failed to insert review history: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *historyRepository) ListByCard(ctx context.Context, cardID string, limit int) ([]models.ReviewHistory, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("listing review history: card_id=%s, limit=%d", cardID, limit)

	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, card_id, deck_id, grade, time_seconds, reviewed_at
FROM review_history
WHERE card_id = ?
ORDER BY reviewed_at DESC, id DESC
LIMIT ?
`, cardID, limit)
	if err != nil {
		log.Error("failed to list review history: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.ReviewHistory
	for rows.Next() {
		var h models.ReviewHistory
		if err := rows.Scan(&h.ID, &h.CardID, &h.DeckID, &h.Grade, &h.TimeSeconds, &h.ReviewedAt); err != nil {
			log.Error("failed to scan review history row: %v", err)
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *historyRepository) Summary(ctx context.Context, deckID string, since *time.Time) (*models.ReviewSummary, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("fetching review summary: deck_id=%s, since=%v", deckID, since)

	query := sqlBuilder.Select(
		"COUNT(*)",
		"COALESCE(SUM(CASE WHEN grade = 'wrong' THEN 1 ELSE 0 END), 0)",
		"COALESCE(SUM(CASE WHEN grade = 'hard' THEN 1 ELSE 0 END), 0)",
		"COALESCE(SUM(CASE WHEN grade = 'good' THEN 1 ELSE 0 END), 0)",
		"COALESCE(SUM(CASE WHEN grade = 'easy' THEN 1 ELSE 0 END), 0)",
		"COALESCE(ROUND(100.0 * SUM(CASE WHEN grade != 'wrong' THEN 1 ELSE 0 END) / COUNT(*), 1), 0)",
		"COALESCE(AVG(time_seconds), 0)",
	).From("review_history").Where(squirrel.Eq{"deck_id": deckID})
	if since != nil {
		query = query.Where(squirrel.GtOrEq{"reviewed_at": since.UTC()})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}
	s := &models.ReviewSummary{DeckID: deckID}
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(
		&s.Total, &s.Wrong, &s.Hard, &s.Good, &s.Easy, &s.Accuracy, &s.AvgSeconds,
	); err != nil {
		log.Error("failed to query review summary: %v", err)
		return nil, err
	}
	return s, nil
}
