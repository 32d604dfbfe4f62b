package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/vytor/lute/internal/errors"
	"github.com/vytor/lute/internal/logger"
	"github.com/vytor/lute/internal/models"
	"github.com/vytor/lute/internal/repository"
)

// DeckService handles deck-related business logic
type DeckService interface {
	CreateDeck(ctx context.Context, name string) (*models.Deck, error)
	GetDeck(ctx context.Context, id string) (*models.Deck, error)
	ListDecks(ctx context.Context) ([]models.Deck, error)
}

type deckService struct {
	deckRepo repository.DeckRepository
	clock    Clock
}

// NewDeckService creates a new DeckService
func NewDeckService(deckRepo repository.DeckRepository, clock Clock) DeckService {
	return &deckService{deckRepo: deckRepo, clock: clock}
}

func (s *deckService) CreateDeck(ctx context.Context, name string) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_service")
	log.Debug("creating deck: name=%s", name)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewValidationError("name", "cannot be empty")
	}

	deck := models.Deck{
		ID:      uuid.NewString(),
		Name:    name,
		Created: s.clock.now().UnixMilli(),
	}
	if err := s.deckRepo.Insert(ctx, deck); err != nil {
		log.Error("failed to insert deck: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("created deck: id=%s, name=%s", deck.ID, deck.Name)
	return &deck, nil
}

func (s *deckService) GetDeck(ctx context.Context, id string) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_service")
	log.Debug("getting deck: id=%s", id)

	deck, err := s.deckRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get deck: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if deck == nil {
		return nil, errors.NewNotFoundError("deck", id)
	}
	return deck, nil
}

func (s *deckService) ListDecks(ctx context.Context) ([]models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_service")
	log.Debug("listing decks")

	decks, err := s.deckRepo.List(ctx)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return decks, nil
}
