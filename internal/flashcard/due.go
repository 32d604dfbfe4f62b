package flashcard

import (
	"sort"
	"time"

	"github.com/vytor/lute/internal/models"
)

// SelectDue builds the review queue for deckID from cards.
//
// Due learning, relearning and review cards come first, in that order,
// each bucket most-overdue first. Up to newAllowance new cards follow,
// earliest NextReview first. Cards from other decks are ignored; an empty
// deckID accepts every card.
func SelectDue(cards []models.Card, deckID string, now time.Time, newAllowance int) []models.Card {
	nowMs := now.UnixMilli()

	var learning, relearning, review, fresh []models.Card
	for _, c := range cards {
		if deckID != "" && c.DeckID != deckID {
			continue
		}
		switch c.Status {
		case models.StatusNew, "":
			fresh = append(fresh, c)
		case models.StatusLearning:
			if c.NextReview <= nowMs {
				learning = append(learning, c)
			}
		case models.StatusRelearning:
			if c.NextReview <= nowMs {
				relearning = append(relearning, c)
			}
		case models.StatusReview:
			if c.NextReview <= nowMs {
				review = append(review, c)
			}
		}
	}

	for _, bucket := range [][]models.Card{learning, relearning, review, fresh} {
		sortByNextReview(bucket)
	}

	if newAllowance < 0 {
		newAllowance = 0
	}
	if len(fresh) > newAllowance {
		fresh = fresh[:newAllowance]
	}

	out := make([]models.Card, 0, len(learning)+len(relearning)+len(review)+len(fresh))
	out = append(out, learning...)
	out = append(out, relearning...)
	out = append(out, review...)
	out = append(out, fresh...)
	return out
}

// NewAllowance is how many new cards may still be introduced today.
func NewAllowance(dailyLimit, consumedToday int) int {
	return max(0, dailyLimit-consumedToday)
}

// Truncate caps queue at runLength entries; runLength <= 0 means no cap.
func Truncate(queue []models.Card, runLength int) []models.Card {
	if runLength > 0 && len(queue) > runLength {
		return queue[:runLength]
	}
	return queue
}

func sortByNextReview(cards []models.Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].NextReview < cards[j].NextReview
	})
}
