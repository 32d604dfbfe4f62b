package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/lute/internal/logger"
	"github.com/vytor/lute/internal/models"
	"github.com/vytor/lute/internal/repository"
)

var cardColumns = []string{
	"id", "deck_id", "question", "answer", "status", "learning_step",
	"interval_days", "ease", "reps", "lapses", "next_review",
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCard(row scanner) (models.Card, error) {
	var c models.Card
	err := row.Scan(&c.ID, &c.DeckID, &c.Question, &c.Answer, &c.Status, &c.LearningStep,
		&c.Interval, &c.Ease, &c.Reps, &c.Lapses, &c.NextReview)
	return c, err
}

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Get(ctx context.Context, id string) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("getting card: id=%s", id)

	query, args, err := sqlBuilder.Select(cardColumns...).From("cards").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	c, err := scanCard(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, err
	}
	return &c, nil
}

func (r *cardRepository) List(ctx context.Context, filter models.CardFilter) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing cards with filter: deck_id=%s, status=%s", filter.DeckID, filter.Status)

	query := sqlBuilder.Select(cardColumns...).From("cards")
	if filter.DeckID != "" {
		query = query.Where(squirrel.Eq{"deck_id": filter.DeckID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.DueBefore != nil {
		query = query.Where(squirrel.LtOrEq{"next_review": filter.DueBefore.UnixMilli()})
	}
	query = query.OrderBy("next_review ASC", "id ASC")

	limit := filter.Limit
	if limit <= 0 {
		limit = 500
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query = query.Limit(uint64(limit)).Offset(uint64(offset))

	return r.query(ctx, query)
}

func (r *cardRepository) ListByDeck(ctx context.Context, deckID string) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("reading all cards: deck_id=%s", deckID)

	return r.query(ctx, sqlBuilder.Select(cardColumns...).From("cards").
		Where(squirrel.Eq{"deck_id": deckID}).
		OrderBy("next_review ASC", "id ASC"))
}

func (r *cardRepository) query(ctx context.Context, q squirrel.SelectBuilder) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	sql, args, err := q.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, sql, args...)
	if err != nil {
		log.Error("failed to query cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			log.Error("failed to scan card row: %v", err)
			return nil, err
		}
		cards = append(cards, c)
	}
	log.Debug("found %d cards", len(cards))
	return cards, rows.Err()
}

func (r *cardRepository) Insert(ctx context.Context, c models.Card) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting card: id=%s, deck_id=%s", c.ID, c.DeckID)

	query, args, err := sqlBuilder.Insert("cards").Columns(cardColumns...).
		Values(c.ID, c.DeckID, c.Question, c.Answer, c.Status, c.LearningStep, c.Interval, c.Ease, c.Reps, c.Lapses, c.NextReview).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to insert card: %v", err)
		return err
	}
	return nil
}

const updateCardSQL = `
UPDATE cards
SET question = ?, answer = ?, status = ?, learning_step = ?, interval_days = ?, ease = ?, reps = ?, lapses = ?, next_review = ?
WHERE id = ?
`

func (r *cardRepository) Update(ctx context.Context, c models.Card) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("updating card: id=%s, status=%s, interval=%d, ease=%.2f", c.ID, c.Status, c.Interval, c.Ease)

	res, err := r.db.ExecContext(ctx, updateCardSQL,
		c.Question, c.Answer, c.Status, c.LearningStep, c.Interval, c.Ease, c.Reps, c.Lapses, c.NextReview, c.ID)
	if err != nil {
		log.Error("failed to update card: %v", err)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SaveBatch writes every card in one transaction, inserting unknown ids.
func (r *cardRepository) SaveBatch(ctx context.Context, cards []models.Card) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("saving %d cards", len(cards))

	if len(cards) == 0 {
		return nil
	}

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO cards (id, deck_id, question, answer, status, learning_step, interval_days, ease, reps, lapses, next_review)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    question = excluded.question,
    answer = excluded.answer,
    status = excluded.status,
    learning_step = excluded.learning_step,
    interval_days = excluded.interval_days,
    ease = excluded.ease,
    reps = excluded.reps,
    lapses = excluded.lapses,
    next_review = excluded.next_review
`)
		if err != nil {
			log.Error("failed to prepare card save: %v", err)
			return err
		}
		defer stmt.Close()

		for _, c := range cards {
			if _, err := stmt.ExecContext(ctx, c.ID, c.DeckID, c.Question, c.Answer, c.Status, c.LearningStep,
				c.Interval, c.Ease, c.Reps, c.Lapses, c.NextReview); err != nil {
				log.Error("failed to save card id=%s: %v", c.ID, err)
				return err
			}
		}
		return nil
	})
}
