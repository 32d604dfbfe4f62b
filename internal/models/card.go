package models

import "time"

// CardStatus is the lifecycle tag of a card.
type CardStatus string

const (
	StatusNew        CardStatus = "new"
	StatusLearning   CardStatus = "learning"
	StatusReview     CardStatus = "review"
	StatusRelearning CardStatus = "relearning"
)

// Valid reports whether s is one of the known statuses.
func (s CardStatus) Valid() bool {
	switch s {
	case StatusNew, StatusLearning, StatusReview, StatusRelearning:
		return true
	}
	return false
}

// Card is a single flashcard together with its scheduling state.
// NextReview is an absolute timestamp in epoch milliseconds.
type Card struct {
	ID           string     `json:"id"`
	DeckID       string     `json:"deckId"`
	Question     string     `json:"question"`
	Answer       string     `json:"answer"`
	Status       CardStatus `json:"status"`
	LearningStep int        `json:"learningStep"`
	Interval     int        `json:"interval"`
	Ease         float64    `json:"ease"`
	Reps         int        `json:"reps"`
	Lapses       int        `json:"lapses"`
	NextReview   int64      `json:"nextReview"`
}

// DueAt returns NextReview as a time.Time.
func (c Card) DueAt() time.Time {
	return time.UnixMilli(c.NextReview)
}

// IsDue reports whether the card's next review is at or before now.
func (c Card) IsDue(now time.Time) bool {
	return c.NextReview <= now.UnixMilli()
}

type Deck struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Created int64  `json:"created"`
}

// CardFilter narrows card listings.
type CardFilter struct {
	DeckID    string
	Status    CardStatus
	DueBefore *time.Time
	Limit     int
	Offset    int
}

type ReviewHistory struct {
	ID          int64     `json:"id"`
	CardID      string    `json:"card_id"`
	DeckID      string    `json:"deck_id"`
	Grade       Grade     `json:"grade"`
	TimeSeconds float64   `json:"time_seconds"`
	ReviewedAt  time.Time `json:"reviewed_at"`
}

// SessionRef identifies a stored review session.
type SessionRef struct {
	Mode      ReviewMode `json:"mode"`
	DeckID    string     `json:"deckId"`
	UpdatedAt int64      `json:"updatedAt"`
}
