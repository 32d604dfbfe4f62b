package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vytor/lute/internal/models"
)

type createCardRequest struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var req createCardRequest
	if err := decodeAndValidate(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	card, err := s.CardService.CreateCard(r.Context(), chi.URLParam(r, "deckID"), req.Question, req.Answer)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

// handleListCards supports ?status=, ?due=1, ?limit= and ?offset=.
func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	filter := models.CardFilter{
		DeckID: chi.URLParam(r, "deckID"),
		Status: models.CardStatus(r.URL.Query().Get("status")),
	}
	var err error
	if filter.Limit, err = queryInt(r, "limit", 0); err != nil {
		handleError(w, r, err)
		return
	}
	if filter.Offset, err = queryInt(r, "offset", 0); err != nil {
		handleError(w, r, err)
		return
	}
	if r.URL.Query().Get("due") == "1" {
		now := time.Now()
		filter.DueBefore = &now
	}

	cards, err := s.CardService.ListCards(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if cards == nil {
		cards = []models.Card{}
	}
	writeJSON(w, http.StatusOK, cards)
}

func (s *Server) handleDueCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.ReviewService.DueCards(r.Context(), chi.URLParam(r, "deckID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	if cards == nil {
		cards = []models.Card{}
	}
	writeJSON(w, http.StatusOK, cards)
}
