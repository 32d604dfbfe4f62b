package flashcard

import (
	"math"
	"time"

	"github.com/vytor/lute/internal/models"
)

// DeckStats summarises the scheduling state of cards.
func DeckStats(deckID string, cards []models.Card, now time.Time) models.DeckStats {
	st := models.DeckStats{DeckID: deckID}
	var easeSum float64
	var intervalSum int
	for _, c := range cards {
		st.Total++
		switch c.Status {
		case models.StatusNew, "":
			st.New++
		case models.StatusLearning:
			st.Learning++
		case models.StatusReview:
			st.Review++
		case models.StatusRelearning:
			st.Relearning++
		}
		if c.Status != models.StatusNew && c.IsDue(now) {
			st.Due++
		}
		st.Lapses += c.Lapses
		easeSum += c.Ease
		intervalSum += c.Interval
	}
	if st.Total > 0 {
		st.AvgEase = round2(easeSum / float64(st.Total))
		st.AvgInterval = round2(float64(intervalSum) / float64(st.Total))
	}
	return st
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
