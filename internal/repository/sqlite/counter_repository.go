package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vytor/lute/internal/logger"
	"github.com/vytor/lute/internal/models"
	"github.com/vytor/lute/internal/repository"
)

type counterRepository struct {
	db *sql.DB
}

// NewCounterRepository creates a new CounterRepository implementation
func NewCounterRepository(db *sql.DB) repository.CounterRepository {
	return &counterRepository{db: db}
}

func (r *counterRepository) Get(ctx context.Context, key, date string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT value FROM daily_counters WHERE key = ? AND day = ?`, key, date).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		logger.FromContext(ctx).WithPrefix("counter_repo").Error("failed to read counter %s/%s: %v", key, date, err)
		return 0, err
	}
	return n, nil
}

func (r *counterRepository) Increment(ctx context.Context, key, date string) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("counter_repo")
	log.Debug("incrementing counter: key=%s, day=%s", key, date)

	var n int
	err := r.db.QueryRowContext(ctx, `
INSERT INTO daily_counters (key, day, value) VALUES (?, ?, 1)
ON CONFLICT(key, day) DO UPDATE SET value = value + 1
RETURNING value
`, key, date).Scan(&n)
	if err != nil {
		log.Error("failed to increment counter: %v", err)
		return 0, err
	}
	return n, nil
}

func (r *counterRepository) GetStreak(ctx context.Context) (models.Streak, error) {
	var s models.Streak
	err := r.db.QueryRowContext(ctx, `SELECT days, last_date FROM streak WHERE id = 1`).Scan(&s.Days, &s.LastDate)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Streak{}, nil
	}
	if err != nil {
		logger.FromContext(ctx).WithPrefix("counter_repo").Error("failed to read streak: %v", err)
		return models.Streak{}, err
	}
	return s, nil
}

func (r *counterRepository) SaveStreak(ctx context.Context, s models.Streak) error {
	log := logger.FromContext(ctx).WithPrefix("counter_repo")
	log.Debug("saving streak: days=%d, last_date=%s", s.Days, s.LastDate)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO streak (id, days, last_date) VALUES (1, ?, ?)
ON CONFLICT(id) DO UPDATE SET days = excluded.days, last_date = excluded.last_date
`, s.Days, s.LastDate)
	if err != nil {
		log.Error("failed to save streak: %v", err)
	}
	return err
}
