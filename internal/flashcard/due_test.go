package flashcard_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/lute/internal/flashcard"
	"github.com/vytor/lute/internal/models"
)

func card(id string, status models.CardStatus, dueOffset time.Duration) models.Card {
	return models.Card{
		ID:         id,
		DeckID:     "d1",
		Status:     status,
		Ease:       2.5,
		Interval:   3,
		NextReview: now.Add(dueOffset).UnixMilli(),
	}
}

func ids(cards []models.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func TestSelectDue_PriorityOrder(t *testing.T) {
	cards := []models.Card{
		card("new1", models.StatusNew, 0),
		card("rev1", models.StatusReview, -2*time.Hour),
		card("relearn1", models.StatusRelearning, -time.Minute),
		card("learn1", models.StatusLearning, -5*time.Minute),
		card("rev2", models.StatusReview, -48*time.Hour),
		card("learn2", models.StatusLearning, -time.Hour),
	}

	got := flashcard.SelectDue(cards, "d1", now, 10)

	assert.Equal(t, []string{"learn2", "learn1", "relearn1", "rev2", "rev1", "new1"}, ids(got))
}

func TestSelectDue_SkipsNotYetDue(t *testing.T) {
	cards := []models.Card{
		card("learn-future", models.StatusLearning, 5*time.Minute),
		card("rev-future", models.StatusReview, 24*time.Hour),
		card("rev-now", models.StatusReview, 0),
		card("new-future", models.StatusNew, time.Hour),
	}

	got := flashcard.SelectDue(cards, "d1", now, 10)

	assert.Equal(t, []string{"rev-now", "new-future"}, ids(got), "new cards are eligible regardless of nextReview")
}

func TestSelectDue_FiltersDeck(t *testing.T) {
	other := card("other", models.StatusReview, -time.Hour)
	other.DeckID = "d2"
	cards := []models.Card{other, card("mine", models.StatusReview, -time.Hour)}

	assert.Equal(t, []string{"mine"}, ids(flashcard.SelectDue(cards, "d1", now, 0)))
	assert.Len(t, flashcard.SelectDue(cards, "", now, 0), 2)
}

func TestSelectDue_NewCardCap(t *testing.T) {
	tests := []struct {
		name     string
		newCards int
		limit    int
		consumed int
		want     int
	}{
		{name: "cap below available", newCards: 5, limit: 3, consumed: 0, want: 3},
		{name: "partially consumed", newCards: 5, limit: 3, consumed: 2, want: 1},
		{name: "fully consumed", newCards: 5, limit: 3, consumed: 3, want: 0},
		{name: "over consumed", newCards: 5, limit: 3, consumed: 9, want: 0},
		{name: "fewer available than limit", newCards: 2, limit: 20, consumed: 0, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards := []models.Card{card("rev", models.StatusReview, -time.Hour)}
			for i := 0; i < tt.newCards; i++ {
				cards = append(cards, card(fmt.Sprintf("new%d", i), models.StatusNew, time.Duration(i)*time.Second))
			}

			got := flashcard.SelectDue(cards, "d1", now, flashcard.NewAllowance(tt.limit, tt.consumed))

			newCount := 0
			for i, c := range got {
				if c.Status == models.StatusNew {
					newCount++
				} else {
					assert.Equal(t, 0, i, "non-new cards come first")
				}
			}
			assert.Equal(t, tt.want, newCount)
		})
	}
}

func TestTruncate(t *testing.T) {
	cards := []models.Card{card("a", models.StatusNew, 0), card("b", models.StatusNew, 0), card("c", models.StatusNew, 0)}

	assert.Len(t, flashcard.Truncate(cards, 2), 2)
	assert.Len(t, flashcard.Truncate(cards, 0), 3)
	assert.Len(t, flashcard.Truncate(cards, 10), 3)
}

func TestDeckStats(t *testing.T) {
	lapsed := card("rel", models.StatusRelearning, -time.Minute)
	lapsed.Lapses = 2
	cards := []models.Card{
		card("n", models.StatusNew, 0),
		card("l", models.StatusLearning, time.Hour),
		card("r", models.StatusReview, -time.Hour),
		lapsed,
	}

	st := flashcard.DeckStats("d1", cards, now)

	assert.Equal(t, 4, st.Total)
	assert.Equal(t, 1, st.New)
	assert.Equal(t, 1, st.Learning)
	assert.Equal(t, 1, st.Review)
	assert.Equal(t, 1, st.Relearning)
	assert.Equal(t, 2, st.Due)
	assert.Equal(t, 2, st.Lapses)
	assert.Equal(t, 2.5, st.AvgEase)
	assert.Equal(t, 3.0, st.AvgInterval)
}
