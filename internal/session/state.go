// Package session drives a single review run over a queue of variant cards.
//
// A session is a plain State value. Every transition is a function that
// takes a State and returns a new one; nothing here touches storage, so
// callers decide when a state is persisted.
package session

import (
	"time"

	"github.com/vytor/lute/internal/flashcard"
	"github.com/vytor/lute/internal/models"
)

// State is the full, serialisable state of a review session.
type State struct {
	DeckID    string               `json:"deckId"`
	Mode      models.ReviewMode    `json:"mode"`
	RunLength int                  `json:"runLength"`
	Queue     []models.VariantCard `json:"queue"`
	Index     int                  `json:"index"`
	Game      models.GameState     `json:"gameState"`
	StartedAt int64                `json:"startedAt"`
	UpdatedAt int64                `json:"updatedAt"`
}

// New builds a session positioned on the first card of queue.
func New(deckID string, mode models.ReviewMode, runLength int, queue []models.VariantCard, game models.GameState, now time.Time) State {
	return State{
		DeckID:    deckID,
		Mode:      mode,
		RunLength: runLength,
		Queue:     clone(queue),
		Game:      game,
		StartedAt: now.UnixMilli(),
		UpdatedAt: now.UnixMilli(),
	}
}

// Current returns the card under the cursor, or false once the queue is
// exhausted.
func (s State) Current() (models.VariantCard, bool) {
	if s.Index < 0 || s.Index >= len(s.Queue) {
		return models.VariantCard{}, false
	}
	return s.Queue[s.Index], true
}

func (s State) IsFinished() bool {
	return s.Index >= len(s.Queue)
}

// HasNext reports whether another card follows the current one.
func (s State) HasNext() bool {
	return s.Index+1 < len(s.Queue)
}

// Remaining counts the entries from the cursor to the end, current included.
func (s State) Remaining() int {
	return max(0, len(s.Queue)-s.Index)
}

// Results is a copy of the whole queue, graded entries included.
func (s State) Results() []models.VariantCard {
	return clone(s.Queue)
}

// Grade schedules the current card with p and overwrites its queue slot
// in place. The slot keeps its own RunReturnedCount: identity is the
// position, not the card ID, because a requeued card appears more than
// once. With no current card it returns s unchanged and false.
func Grade(s State, p flashcard.Params, grade models.Grade, now time.Time) (State, models.VariantCard, bool) {
	cur, ok := s.Current()
	if !ok {
		return s, models.VariantCard{}, false
	}
	graded := cur
	graded.Card = p.Review(cur.Card, grade, now)
	graded.RunReturnedCount = cur.RunReturnedCount

	s.Queue = ReplaceAt(s.Queue, s.Index, graded)
	s.UpdatedAt = now.UnixMilli()
	return s, graded, true
}

// Advance moves the cursor past the current card.
func Advance(s State) State {
	if s.Index < len(s.Queue) {
		s.Index++
	}
	return s
}
