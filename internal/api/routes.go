package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Use(timeoutMiddleware(60 * time.Second))

		r.Get("/decks", s.handleListDecks)
		r.Post("/decks", s.handleCreateDeck)
		r.Get("/sessions", s.handleListSessions)
		r.Get("/streak", s.handleStreak)

		r.Route("/decks/{deckID}", func(r chi.Router) {
			r.Get("/", s.handleGetDeck)
			r.Get("/stats", s.handleDeckStats)
			r.Get("/stats/reviews", s.handleReviewSummary)
			r.Get("/cards", s.handleListCards)
			r.Post("/cards", s.handleCreateCard)
			r.Get("/due", s.handleDueCards)

			r.With(s.rateLimitMiddleware).Post("/sessions", s.handleStartSession)
			r.Route("/sessions/{mode}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleEndSession)
				r.Post("/grade", s.handleGrade)
				r.Post("/answer", s.handleAnswer)
				r.Post("/events", s.handleEvent)
			})
		})
	})
	return r
}
