// Package variant turns cards into quiz presentations and checks answers
// against them.
package variant

import (
	"context"
	"errors"

	"github.com/vytor/lute/internal/models"
)

// ErrEmptyVariant is returned when a generator produced nothing usable.
var ErrEmptyVariant = errors.New("variant generator returned no variant")

// Generator produces the presentation for a single card. A nil variant
// with a nil error counts as a failure.
type Generator interface {
	Generate(ctx context.Context, card models.Card) (*models.Variant, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, card models.Card) (*models.Variant, error)

func (f GeneratorFunc) Generate(ctx context.Context, card models.Card) (*models.Variant, error) {
	return f(ctx, card)
}

// ClassicGenerator presents the card's own question and answer.
type ClassicGenerator struct{}

func (ClassicGenerator) Generate(_ context.Context, card models.Card) (*models.Variant, error) {
	return models.NewClassic(card.Question, card.Answer), nil
}
