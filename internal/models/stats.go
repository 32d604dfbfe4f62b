package models

type DeckStats struct {
	DeckID       string  `json:"deck_id"`
	Total        int     `json:"total"`
	Due          int     `json:"due"`
	New          int     `json:"new"`
	Learning     int     `json:"learning"`
	Review       int     `json:"review"`
	Relearning   int     `json:"relearning"`
	Lapses       int     `json:"lapses"`
	AvgEase      float64 `json:"avg_ease"`
	AvgInterval  float64 `json:"avg_interval"`
	NewAvailable int     `json:"new_available"`
	NewSeenToday int     `json:"new_seen_today"`
}

type Streak struct {
	Days     int    `json:"days"`
	LastDate string `json:"last_date"`
}

// ReviewSummary aggregates review history for a deck.
type ReviewSummary struct {
	DeckID     string  `json:"deck_id"`
	Total      int     `json:"total"`
	Wrong      int     `json:"wrong"`
	Hard       int     `json:"hard"`
	Good       int     `json:"good"`
	Easy       int     `json:"easy"`
	Accuracy   float64 `json:"accuracy"`
	AvgSeconds float64 `json:"avg_seconds"`
}
