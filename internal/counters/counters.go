// Package counters tracks per-day tallies such as how many new cards a deck
// has introduced today, and the global review streak.
package counters

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vytor/lute/internal/models"
)

const dateLayout = "2006-01-02"

// DailyCounters stores integer tallies keyed by name and calendar date.
// A date that was never incremented reads as zero, so counters reset at
// the day boundary without any cleanup.
type DailyCounters interface {
	Get(ctx context.Context, key, date string) (int, error)
	Increment(ctx context.Context, key, date string) (int, error)
}

// StreakStore persists the single global streak record.
type StreakStore interface {
	GetStreak(ctx context.Context) (models.Streak, error)
	SaveStreak(ctx context.Context, s models.Streak) error
}

// NewCardsKey is the counter key for new cards introduced in deckID.
func NewCardsKey(deckID string) string {
	return "newCount:" + deckID
}

// DayKey formats now as a calendar date in loc. A nil loc means UTC.
func DayKey(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format(dateLayout)
}

// PreviousDay returns the calendar date before date.
func PreviousDay(date string) (string, error) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", date, err)
	}
	return t.AddDate(0, 0, -1).Format(dateLayout), nil
}

// NextStreak applies a finished session on today to prev: unchanged if the
// streak was already extended today, +1 if it was last extended yesterday,
// and reset to 1 otherwise.
func NextStreak(prev models.Streak, today string) models.Streak {
	if prev.LastDate == today && prev.Days > 0 {
		return prev
	}
	yesterday, err := PreviousDay(today)
	if err == nil && prev.LastDate == yesterday && prev.Days > 0 {
		return models.Streak{Days: prev.Days + 1, LastDate: today}
	}
	return models.Streak{Days: 1, LastDate: today}
}

// CurrentStreak is the streak as it should be displayed on today: a streak
// whose last day is older than yesterday has lapsed to zero.
func CurrentStreak(s models.Streak, today string) models.Streak {
	if s.LastDate == today {
		return s
	}
	if yesterday, err := PreviousDay(today); err == nil && s.LastDate == yesterday {
		return s
	}
	return models.Streak{Days: 0, LastDate: s.LastDate}
}

// Memory is an in-process DailyCounters and StreakStore.
type Memory struct {
	mu     sync.Mutex
	counts map[string]int
	streak models.Streak
}

func NewMemory() *Memory {
	return &Memory{counts: make(map[string]int)}
}

func (m *Memory) Get(_ context.Context, key, date string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[key+"|"+date], nil
}

func (m *Memory) Increment(_ context.Context, key, date string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key + "|" + date
	m.counts[k]++
	return m.counts[k], nil
}

func (m *Memory) GetStreak(context.Context) (models.Streak, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.streak, nil
}

func (m *Memory) SaveStreak(_ context.Context, s models.Streak) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.streak = s
	return nil
}
