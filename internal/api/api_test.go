package api_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/lute/internal/api"
	"github.com/vytor/lute/internal/flashcard"
	"github.com/vytor/lute/internal/jobs"
	"github.com/vytor/lute/internal/models"
	"github.com/vytor/lute/internal/repository/sqlite"
	"github.com/vytor/lute/internal/scoring"
	"github.com/vytor/lute/internal/services"
	"github.com/vytor/lute/internal/session"
	"github.com/vytor/lute/internal/testutil"
	"github.com/vytor/lute/internal/worker"
)

type errorResponse struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		Retryable bool   `json:"retryable"`
	} `json:"error"`
}

type APISuite struct {
	suite.Suite
	db     *sql.DB
	pool   *worker.Pool
	server *api.Server
	h      http.Handler
}

func (s *APISuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())

	deckRepo := sqlite.NewDeckRepository(s.db)
	cardRepo := sqlite.NewCardRepository(s.db)
	historyRepo := sqlite.NewHistoryRepository(s.db)
	counterRepo := sqlite.NewCounterRepository(s.db)

	s.pool = worker.NewPool(1, 16)
	s.pool.Start(context.Background())

	config := services.DefaultReviewConfig()
	engine := session.NewEngine(flashcard.DefaultParams(), session.DefaultRequeuePolicy(), scoring.NewScorer(nil))

	s.server = &api.Server{
		DeckService: services.NewDeckService(deckRepo, nil),
		CardService: services.NewCardService(deckRepo, cardRepo, nil),
		ReviewService: services.NewReviewService(
			deckRepo, cardRepo, counterRepo, sqlite.NewSessionRepository(s.db),
			jobs.NewWorkerQueue(s.pool, historyRepo),
			nil, engine, config, nil,
		),
		StatsService: services.NewStatsService(deckRepo, cardRepo, historyRepo, counterRepo, config, nil),
		DB:           s.db,
	}
	s.h = s.server.Routes()
}

func (s *APISuite) TearDownTest() {
	s.pool.Stop()
	testutil.MustClose(s.T(), s.db)
}

func (s *APISuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.h.ServeHTTP(rec, req)
	return rec
}

func (s *APISuite) decode(rec *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func (s *APISuite) createDeck(name string) models.Deck {
	rec := s.do(http.MethodPost, "/api/decks", map[string]string{"name": name})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var d models.Deck
	s.decode(rec, &d)
	return d
}

func (s *APISuite) createCard(deckID, q, a string) {
	rec := s.do(http.MethodPost, "/api/decks/"+deckID+"/cards", map[string]string{"question": q, "answer": a})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
}

func (s *APISuite) assertError(rec *httptest.ResponseRecorder, status int, code string) errorResponse {
	s.Equal(status, rec.Code, rec.Body.String())
	s.Equal("application/json", rec.Header().Get("Content-Type"))
	var body errorResponse
	s.decode(rec, &body)
	s.Equal(code, body.Error.Code)
	return body
}

func (s *APISuite) TestHealthAndReady() {
	rec := s.do(http.MethodGet, "/healthz", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.NotEmpty(rec.Header().Get("X-Request-ID"))
	s.Equal("nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = s.do(http.MethodGet, "/readyz", nil)
	s.Equal(http.StatusOK, rec.Code, rec.Body.String())

	s.server.ReadyChecks = map[string]func(context.Context) error{
		"redis": func(context.Context) error { return stderrors.New("connection refused") },
	}
	rec = s.do(http.MethodGet, "/readyz", nil)
	s.Equal(http.StatusServiceUnavailable, rec.Code)
	var body struct {
		Ready  bool              `json:"ready"`
		Checks map[string]string `json:"checks"`
	}
	s.decode(rec, &body)
	s.False(body.Ready)
	s.Equal("ok", body.Checks["database"])
	s.Equal("connection refused", body.Checks["redis"])
}

func (s *APISuite) TestDeckLifecycle() {
	d := s.createDeck("Spanish")
	s.NotEmpty(d.ID)

	rec := s.do(http.MethodGet, "/api/decks/"+d.ID, nil)
	s.Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/decks", nil)
	var decks []models.Deck
	s.decode(rec, &decks)
	s.Len(decks, 1)

	s.assertError(s.do(http.MethodGet, "/api/decks/missing", nil), http.StatusNotFound, "NOT_FOUND")
}

func (s *APISuite) TestCreateDeckValidation() {
	body := s.assertError(s.do(http.MethodPost, "/api/decks", map[string]string{}), http.StatusBadRequest, "VALIDATION_ERROR")
	s.Contains(body.Error.Message, "name")

	s.assertError(s.do(http.MethodPost, "/api/decks", map[string]string{"name": "x", "colour": "red"}), http.StatusBadRequest, "BAD_REQUEST")
}

func (s *APISuite) TestCardsAndStats() {
	d := s.createDeck("Capitals")
	s.createCard(d.ID, "France?", "Paris")
	s.createCard(d.ID, "Spain?", "Madrid")

	rec := s.do(http.MethodGet, "/api/decks/"+d.ID+"/cards?status=new&limit=1", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var cards []models.Card
	s.decode(rec, &cards)
	s.Len(cards, 1)

	s.assertError(s.do(http.MethodGet, "/api/decks/"+d.ID+"/cards?limit=abc", nil), http.StatusBadRequest, "VALIDATION_ERROR")

	rec = s.do(http.MethodGet, "/api/decks/"+d.ID+"/due", nil)
	s.decode(rec, &cards)
	s.Len(cards, 2)

	rec = s.do(http.MethodGet, "/api/decks/"+d.ID+"/stats", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var stats models.DeckStats
	s.decode(rec, &stats)
	s.Equal(2, stats.Total)
	s.Equal(2, stats.New)

	rec = s.do(http.MethodGet, "/api/decks/"+d.ID+"/stats/reviews?days=7", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var sum models.ReviewSummary
	s.decode(rec, &sum)
	s.Equal(0, sum.Total)

	rec = s.do(http.MethodGet, "/api/streak", nil)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *APISuite) TestSessionFlow() {
	d := s.createDeck("Verbs")
	s.createCard(d.ID, "to be", "ser")
	base := "/api/decks/" + d.ID + "/sessions"

	rec := s.do(http.MethodPost, base, map[string]any{"mode": "classic", "runLength": 5})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var view services.SessionView
	s.decode(rec, &view)
	s.Equal(1, view.Total)
	s.Require().NotNil(view.Current)
	s.Equal("to be", view.Current.Question)

	rec = s.do(http.MethodPost, base, map[string]any{"mode": "classic"})
	s.Equal(http.StatusOK, rec.Code)
	s.decode(rec, &view)
	s.True(view.Resumed)

	rec = s.do(http.MethodGet, "/api/sessions", nil)
	var refs []models.SessionRef
	s.decode(rec, &refs)
	s.Require().Len(refs, 1)
	s.Equal(models.ModeClassic, refs[0].Mode)

	s.assertError(s.do(http.MethodPost, base+"/classic/grade", map[string]any{"grade": "meh"}), http.StatusBadRequest, "VALIDATION_ERROR")
	s.assertError(s.do(http.MethodPost, base+"/classic/events", map[string]any{"event": "nope"}), http.StatusBadRequest, "VALIDATION_ERROR")

	rec = s.do(http.MethodPost, base+"/classic/events", map[string]any{"event": "tempo_up"})
	s.Equal(http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, base+"/classic/grade", map[string]any{"grade": "easy", "seconds": 2.5})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var res services.StepResult
	s.decode(rec, &res)
	s.True(res.Applied)
	s.True(res.Session.Finished)
	s.Require().NotNil(res.Streak)
	s.Equal(1, res.Streak.Days)

	s.assertError(s.do(http.MethodGet, base+"/classic", nil), http.StatusNotFound, "NOT_FOUND")
}

func (s *APISuite) TestEndSession() {
	d := s.createDeck("Nouns")
	s.createCard(d.ID, "house", "casa")
	base := "/api/decks/" + d.ID + "/sessions"

	rec := s.do(http.MethodPost, base, map[string]any{"mode": "classic"})
	s.Require().Equal(http.StatusCreated, rec.Code)

	rec = s.do(http.MethodDelete, base+"/classic", nil)
	s.Equal(http.StatusNoContent, rec.Code)
	s.assertError(s.do(http.MethodGet, base+"/classic", nil), http.StatusNotFound, "NOT_FOUND")
}

func (s *APISuite) TestSessionErrors() {
	d := s.createDeck("Empty")
	base := "/api/decks/" + d.ID + "/sessions"

	s.assertError(s.do(http.MethodPost, base, map[string]any{"mode": "classic"}), http.StatusNotFound, "NOT_FOUND")
	s.assertError(s.do(http.MethodPost, base, map[string]any{"mode": "zen"}), http.StatusBadRequest, "VALIDATION_ERROR")
	s.assertError(s.do(http.MethodPost, base, map[string]any{"mode": "classic", "runLength": -1}), http.StatusBadRequest, "VALIDATION_ERROR")
	s.assertError(s.do(http.MethodGet, base+"/zen", nil), http.StatusBadRequest, "VALIDATION_ERROR")

	body := s.assertError(s.do(http.MethodPost, base, map[string]any{"mode": "ai"}), http.StatusServiceUnavailable, "UNAVAILABLE")
	s.True(body.Error.Retryable)
}

func (s *APISuite) TestStartSessionRateLimited() {
	s.server.StartLimiter = api.NewRateLimiter(0.001, 1)
	d := s.createDeck("Limited")
	base := "/api/decks/" + d.ID + "/sessions"

	// the first request spends the only token, whatever its outcome
	s.do(http.MethodPost, base, map[string]any{"mode": "classic"})
	rec := s.do(http.MethodPost, base, map[string]any{"mode": "classic"})
	s.assertError(rec, http.StatusTooManyRequests, "RATE_LIMITED")
	s.Equal("1", rec.Header().Get("Retry-After"))
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func TestRateLimiter_PerKey(t *testing.T) {
	rl := api.NewRateLimiter(0.001, 2)

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	require.True(t, rl.Allow("b"), "keys do not share a bucket")
}

func TestRoutes_RecoversPanicsAsJSON(t *testing.T) {
	h := (&api.Server{}).Routes()

	req := httptest.NewRequest(http.MethodGet, "/api/decks", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
}
