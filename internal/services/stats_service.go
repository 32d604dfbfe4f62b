package services

import (
	"context"
	"time"

	"github.com/vytor/lute/internal/counters"
	"github.com/vytor/lute/internal/errors"
	"github.com/vytor/lute/internal/flashcard"
	"github.com/vytor/lute/internal/logger"
	"github.com/vytor/lute/internal/models"
	"github.com/vytor/lute/internal/repository"
)

// StatsService handles statistics-related business logic
type StatsService interface {
	DeckStats(ctx context.Context, deckID string) (*models.DeckStats, error)
	ReviewSummary(ctx context.Context, deckID string, days int) (*models.ReviewSummary, error)
	Streak(ctx context.Context) (*models.Streak, error)
}

type statsService struct {
	deckRepo    repository.DeckRepository
	cardRepo    repository.CardRepository
	historyRepo repository.HistoryRepository
	counterRepo repository.CounterRepository
	config      ReviewConfig
	clock       Clock
}

// NewStatsService creates a new StatsService
func NewStatsService(
	deckRepo repository.DeckRepository,
	cardRepo repository.CardRepository,
	historyRepo repository.HistoryRepository,
	counterRepo repository.CounterRepository,
	config ReviewConfig,
	clock Clock,
) StatsService {
	return &statsService{
		deckRepo:    deckRepo,
		cardRepo:    cardRepo,
		historyRepo: historyRepo,
		counterRepo: counterRepo,
		config:      config,
		clock:       clock,
	}
}

func (s *statsService) requireDeck(ctx context.Context, deckID string) error {
	deck, err := s.deckRepo.Get(ctx, deckID)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if deck == nil {
		return errors.NewNotFoundError("deck", deckID)
	}
	return nil
}

func (s *statsService) DeckStats(ctx context.Context, deckID string) (*models.DeckStats, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_service")
	log.Debug("fetching deck stats: deck_id=%s", deckID)

	if err := s.requireDeck(ctx, deckID); err != nil {
		return nil, err
	}

	now := s.clock.now()
	cards, err := s.cardRepo.ListByDeck(ctx, deckID)
	if err != nil {
		log.Error("failed to read cards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	consumed, err := s.counterRepo.Get(ctx, counters.NewCardsKey(deckID), counters.DayKey(now, s.config.Location))
	if err != nil {
		log.Error("failed to read new-card counter: %v", err)
		return nil, errors.NewInternalError(err)
	}

	st := flashcard.DeckStats(deckID, cards, now)
	st.NewSeenToday = consumed
	st.NewAvailable = min(st.New, flashcard.NewAllowance(s.config.DailyNewLimit, consumed))
	return &st, nil
}

// ReviewSummary aggregates the last days of review history; days <= 0
// covers all of it.
func (s *statsService) ReviewSummary(ctx context.Context, deckID string, days int) (*models.ReviewSummary, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_service")
	log.Debug("fetching review summary: deck_id=%s, days=%d", deckID, days)

	if err := s.requireDeck(ctx, deckID); err != nil {
		return nil, err
	}

	var since *time.Time
	if days > 0 {
		t := s.clock.now().AddDate(0, 0, -days)
		since = &t
	}
	sum, err := s.historyRepo.Summary(ctx, deckID, since)
	if err != nil {
		log.Error("failed to summarise review history: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return sum, nil
}

func (s *statsService) Streak(ctx context.Context) (*models.Streak, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_service")
	log.Debug("fetching streak")

	st, err := s.counterRepo.GetStreak(ctx)
	if err != nil {
		log.Error("failed to read streak: %v", err)
		return nil, errors.NewInternalError(err)
	}
	cur := counters.CurrentStreak(st, counters.DayKey(s.clock.now(), s.config.Location))
	return &cur, nil
}
