package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vytor/lute/internal/logger"
	"github.com/vytor/lute/internal/models"
	"github.com/vytor/lute/internal/repository"
)

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a SessionRepository backed by the
// review_sessions table.
func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Get(ctx context.Context, mode models.ReviewMode, deckID string) ([]byte, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx, `SELECT data FROM review_sessions WHERE mode = ? AND deck_id = ?`, mode, deckID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.FromContext(ctx).WithPrefix("session_repo").Error("failed to read session %s/%s: %v", mode, deckID, err)
		return nil, err
	}
	return data, nil
}

func (r *sessionRepository) Save(ctx context.Context, mode models.ReviewMode, deckID string, data []byte, updatedAt int64) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("saving session: mode=%s, deck_id=%s, bytes=%d", mode, deckID, len(data))

	_, err := r.db.ExecContext(ctx, `
INSERT INTO review_sessions (mode, deck_id, data, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT(mode, deck_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
`, mode, deckID, data, updatedAt)
	if err != nil {
		log.Error("failed to save session: %v", err)
	}
	return err
}

func (r *sessionRepository) Delete(ctx context.Context, mode models.ReviewMode, deckID string) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("deleting session: mode=%s, deck_id=%s", mode, deckID)

	if _, err := r.db.ExecContext(ctx, `DELETE FROM review_sessions WHERE mode = ? AND deck_id = ?`, mode, deckID); err != nil {
		log.Error("failed to delete session: %v", err)
		return err
	}
	return nil
}

func (r *sessionRepository) List(ctx context.Context) ([]models.SessionRef, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT mode, deck_id, updated_at FROM review_sessions ORDER BY updated_at DESC`)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("session_repo").Error("failed to list sessions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var refs []models.SessionRef
	for rows.Next() {
		var ref models.SessionRef
		if err := rows.Scan(&ref.Mode, &ref.DeckID, &ref.UpdatedAt); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}
