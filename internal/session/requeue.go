package session

import (
	"time"

	"github.com/vytor/lute/internal/models"
)

// RequeuePolicy decides whether a just-graded card comes back later in the
// same session. The offset is fixed: OffsetFull slots ahead of the cursor
// for full-length runs, OffsetShort otherwise.
type RequeuePolicy struct {
	Window        time.Duration // card must be due within this horizon
	Floor         int           // minimum entries left, current included
	OffsetFull    int
	OffsetShort   int
	FullRunLength int
}

func DefaultRequeuePolicy() RequeuePolicy {
	return RequeuePolicy{
		Window:        15 * time.Minute,
		Floor:         4,
		OffsetFull:    12,
		OffsetShort:   6,
		FullRunLength: 30,
	}
}

// Offset is the number of slots ahead of the cursor a requeued card lands.
func (p RequeuePolicy) Offset(runLength int) int {
	if runLength == p.FullRunLength {
		return p.OffsetFull
	}
	return p.OffsetShort
}

// Eligible reports whether graded should be requeued in s at now.
func (p RequeuePolicy) Eligible(s State, graded models.VariantCard, now time.Time) bool {
	if s.Index < 0 || s.Index >= len(s.Queue) {
		return false
	}
	if s.Remaining() < p.Floor {
		return false
	}
	return graded.NextReview <= now.Add(p.Window).UnixMilli()
}

// Requeue splices a copy of graded into s at min(Index+offset, len(Queue))
// with RunReturnedCount incremented. Status effects are not carried over:
// they were spent when the card was scored. When the card is not eligible
// s is returned unchanged and false.
func (p RequeuePolicy) Requeue(s State, graded models.VariantCard, now time.Time) (State, bool) {
	if !p.Eligible(s, graded, now) {
		return s, false
	}
	cp := graded
	cp.RunReturnedCount = graded.RunReturnedCount + 1
	cp.StatusData = nil

	s.Queue = InsertAt(s.Queue, s.Index+p.Offset(s.RunLength), cp)
	return s, true
}
