package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/vytor/lute/internal/errors"
	"github.com/vytor/lute/internal/flashcard"
	"github.com/vytor/lute/internal/logger"
	"github.com/vytor/lute/internal/models"
	"github.com/vytor/lute/internal/repository"
)

// CardService handles card-related business logic
type CardService interface {
	CreateCard(ctx context.Context, deckID, question, answer string) (*models.Card, error)
	GetCard(ctx context.Context, id string) (*models.Card, error)
	ListCards(ctx context.Context, filter models.CardFilter) ([]models.Card, error)
}

type cardService struct {
	deckRepo repository.DeckRepository
	cardRepo repository.CardRepository
	clock    Clock
}

// NewCardService creates a new CardService
func NewCardService(deckRepo repository.DeckRepository, cardRepo repository.CardRepository, clock Clock) CardService {
	return &cardService{deckRepo: deckRepo, cardRepo: cardRepo, clock: clock}
}

func (s *cardService) CreateCard(ctx context.Context, deckID, question, answer string) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_service")
	log.Debug("creating card: deck_id=%s", deckID)

	question, answer = strings.TrimSpace(question), strings.TrimSpace(answer)
	if question == "" {
		return nil, errors.NewValidationError("question", "cannot be empty")
	}
	if answer == "" {
		return nil, errors.NewValidationError("answer", "cannot be empty")
	}

	deck, err := s.deckRepo.Get(ctx, deckID)
	if err != nil {
		log.Error("failed to get deck: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if deck == nil {
		return nil, errors.NewNotFoundError("deck", deckID)
	}

	card := flashcard.NewCard(uuid.NewString(), deckID, question, answer, s.clock.now())
	if err := s.cardRepo.Insert(ctx, card); err != nil {
		log.Error("failed to insert card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return &card, nil
}

func (s *cardService) GetCard(ctx context.Context, id string) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_service")
	log.Debug("getting card: id=%s", id)

	card, err := s.cardRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("card", id)
	}
	return card, nil
}

func (s *cardService) ListCards(ctx context.Context, filter models.CardFilter) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_service")
	log.Debug("listing cards: deck_id=%s, status=%s", filter.DeckID, filter.Status)

	if filter.Status != "" && !filter.Status.Valid() {
		return nil, errors.NewValidationError("status", "must be new, learning, review or relearning")
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, errors.NewValidationError("limit", "limit and offset cannot be negative")
	}

	cards, err := s.cardRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return cards, nil
}
