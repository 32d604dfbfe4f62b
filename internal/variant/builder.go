package variant

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vytor/lute/internal/logger"
	"github.com/vytor/lute/internal/models"
)

// Builder renders a whole session queue. Either every card gets a valid
// variant or the build fails; there is no partial result.
type Builder struct {
	gen         Generator
	concurrency int
}

func NewBuilder(gen Generator, concurrency int) *Builder {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Builder{gen: gen, concurrency: concurrency}
}

// Build returns one VariantCard per card, in order.
func (b *Builder) Build(ctx context.Context, cards []models.Card) ([]models.VariantCard, error) {
	log := logger.FromContext(ctx).WithPrefix("variant")
	log.Debug("building %d variants with concurrency %d", len(cards), b.concurrency)

	out := make([]models.VariantCard, len(cards))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, card := range cards {
		g.Go(func() error {
			v, err := b.gen.Generate(gctx, card)
			if err != nil {
				return err
			}
			if v == nil {
				return fmt.Errorf("card %s: %w", card.ID, ErrEmptyVariant)
			}
			if err := v.Validate(); err != nil {
				return fmt.Errorf("card %s: %w", card.ID, err)
			}
			out[i] = models.VariantCard{Card: card, Variant: v}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn("variant build failed: %v", err)
		return nil, err
	}
	return out, nil
}
