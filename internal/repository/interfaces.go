package repository

import (
	"context"
	"time"

	"github.com/vytor/lute/internal/counters"
	"github.com/vytor/lute/internal/models"
)

// DeckRepository handles deck data access
type DeckRepository interface {
	Get(ctx context.Context, id string) (*models.Deck, error)
	List(ctx context.Context) ([]models.Deck, error)
	Insert(ctx context.Context, deck models.Deck) error
}

// CardRepository handles card data access. Get returns nil, nil for an
// unknown id.
type CardRepository interface {
	Get(ctx context.Context, id string) (*models.Card, error)
	List(ctx context.Context, filter models.CardFilter) ([]models.Card, error)
	ListByDeck(ctx context.Context, deckID string) ([]models.Card, error)
	Insert(ctx context.Context, card models.Card) error
	Update(ctx context.Context, card models.Card) error
	SaveBatch(ctx context.Context, cards []models.Card) error
}

// HistoryRepository handles review history data access
type HistoryRepository interface {
	Insert(ctx context.Context, h models.ReviewHistory) (int64, error)
	ListByCard(ctx context.Context, cardID string, limit int) ([]models.ReviewHistory, error)
	Summary(ctx context.Context, deckID string, since *time.Time) (*models.ReviewSummary, error)
}

// CounterRepository stores daily counters and the review streak
type CounterRepository interface {
	counters.DailyCounters
	counters.StreakStore
}

// SessionRepository stores serialised review sessions keyed by mode and
// deck. Get returns nil, nil when nothing is stored.
type SessionRepository interface {
	Get(ctx context.Context, mode models.ReviewMode, deckID string) ([]byte, error)
	Save(ctx context.Context, mode models.ReviewMode, deckID string, data []byte, updatedAt int64) error
	Delete(ctx context.Context, mode models.ReviewMode, deckID string) error
	List(ctx context.Context) ([]models.SessionRef, error)
}
