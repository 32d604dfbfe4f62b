package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vytor/lute/internal/errors"
	"github.com/vytor/lute/internal/logger"
	"github.com/vytor/lute/internal/models"
	"github.com/vytor/lute/internal/scoring"
	"github.com/vytor/lute/internal/services"
)

type startSessionRequest struct {
	Mode      models.ReviewMode `json:"mode" validate:"required,oneof=classic ai"`
	RunLength int               `json:"runLength" validate:"gte=0"`
	Artifacts []models.Artifact `json:"artifacts"`
}

type gradeRequest struct {
	Grade   models.Grade `json:"grade" validate:"required,oneof=wrong hard good easy"`
	Seconds float64      `json:"seconds" validate:"gte=0"`
}

type answerRequest struct {
	Answer  string  `json:"answer"`
	Seconds float64 `json:"seconds" validate:"gte=0"`
}

type eventRequest struct {
	Event string `json:"event" validate:"required"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decodeAndValidate(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	deckID := chi.URLParam(r, "deckID")
	view, err := s.ReviewService.StartSession(r.Context(), deckID, req.Mode, services.StartOptions{
		RunLength: req.RunLength,
		Artifacts: req.Artifacts,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	status := http.StatusCreated
	if view.Resumed {
		status = http.StatusOK
	}
	logger.FromContext(r.Context()).Info("session %s/%s at %d of %d", deckID, req.Mode, view.Index, view.Total)
	writeJSON(w, status, view)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	mode, err := parseMode(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	view, err := s.ReviewService.GetSession(r.Context(), chi.URLParam(r, "deckID"), mode)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	mode, err := parseMode(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.ReviewService.EndSession(r.Context(), chi.URLParam(r, "deckID"), mode); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGrade(w http.ResponseWriter, r *http.Request) {
	mode, err := parseMode(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req gradeRequest
	if err := decodeAndValidate(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	res, err := s.ReviewService.Grade(r.Context(), chi.URLParam(r, "deckID"), mode, req.Grade, req.Seconds)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	mode, err := parseMode(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req answerRequest
	if err := decodeAndValidate(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	res, err := s.ReviewService.Answer(r.Context(), chi.URLParam(r, "deckID"), mode, req.Answer, req.Seconds)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	mode, err := parseMode(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req eventRequest
	if err := decodeAndValidate(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	ev, err := scoring.ParseEvent(req.Event)
	if err != nil {
		handleError(w, r, errors.NewValidationError("event", err.Error()))
		return
	}
	view, err := s.ReviewService.ApplyEvent(r.Context(), chi.URLParam(r, "deckID"), mode, ev)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	refs, err := s.ReviewService.ListSessions(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	if refs == nil {
		refs = []models.SessionRef{}
	}
	writeJSON(w, http.StatusOK, refs)
}
