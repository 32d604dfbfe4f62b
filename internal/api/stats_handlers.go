package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleDeckStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.StatsService.DeckStats(r.Context(), chi.URLParam(r, "deckID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleReviewSummary aggregates history over the last ?days= days; 0 means all time.
func (s *Server) handleReviewSummary(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", 0)
	if err != nil {
		handleError(w, r, err)
		return
	}
	summary, err := s.StatsService.ReviewSummary(r.Context(), chi.URLParam(r, "deckID"), days)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	streak, err := s.StatsService.Streak(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, streak)
}
