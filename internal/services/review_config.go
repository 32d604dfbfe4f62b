package services

import "time"

// ReviewConfig holds configuration for review sessions
type ReviewConfig struct {
	DailyNewLimit   int
	RunLength       int // default session size
	MaxRunLength    int
	TypingTolerance int
	Location        *time.Location // day boundary for counters and streaks
}

// DefaultReviewConfig returns the standard session settings.
func DefaultReviewConfig() ReviewConfig {
	return ReviewConfig{
		DailyNewLimit:   20,
		RunLength:       30,
		MaxRunLength:    500,
		TypingTolerance: 1,
		Location:        time.UTC,
	}
}
