package services

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/vytor/lute/internal/counters"
	"github.com/vytor/lute/internal/errors"
	"github.com/vytor/lute/internal/flashcard"
	"github.com/vytor/lute/internal/jobs"
	"github.com/vytor/lute/internal/logger"
	"github.com/vytor/lute/internal/models"
	"github.com/vytor/lute/internal/repository"
	"github.com/vytor/lute/internal/scoring"
	"github.com/vytor/lute/internal/session"
	"github.com/vytor/lute/internal/variant"
)

// ReviewService runs review sessions over a deck
type ReviewService interface {
	DueCards(ctx context.Context, deckID string) ([]models.Card, error)
	StartSession(ctx context.Context, deckID string, mode models.ReviewMode, opts StartOptions) (*SessionView, error)
	GetSession(ctx context.Context, deckID string, mode models.ReviewMode) (*SessionView, error)
	Grade(ctx context.Context, deckID string, mode models.ReviewMode, grade models.Grade, seconds float64) (*StepResult, error)
	Answer(ctx context.Context, deckID string, mode models.ReviewMode, answer string, seconds float64) (*StepResult, error)
	ApplyEvent(ctx context.Context, deckID string, mode models.ReviewMode, ev scoring.Event) (*SessionView, error)
	EndSession(ctx context.Context, deckID string, mode models.ReviewMode) error
	ListSessions(ctx context.Context) ([]models.SessionRef, error)
}

// StartOptions tunes a new session. Zero values fall back to ReviewConfig.
type StartOptions struct {
	RunLength int
	Artifacts []models.Artifact
}

// SessionView is the client-facing snapshot of a session.
type SessionView struct {
	DeckID    string              `json:"deckId"`
	Mode      models.ReviewMode   `json:"mode"`
	RunLength int                 `json:"runLength"`
	Index     int                 `json:"index"`
	Total     int                 `json:"total"`
	Remaining int                 `json:"remaining"`
	Finished  bool                `json:"finished"`
	Resumed   bool                `json:"resumed"`
	Current   *models.VariantCard `json:"current,omitempty"`
	Game      models.GameState    `json:"gameState"`
}

// StepResult reports one grading step. Applied is false when the session
// had no current card and nothing changed.
type StepResult struct {
	Applied  bool                `json:"applied"`
	Grade    models.Grade        `json:"grade,omitempty"`
	Correct  *bool               `json:"correct,omitempty"`
	Graded   *models.VariantCard `json:"graded,omitempty"`
	Requeued bool                `json:"requeued"`
	Earned   float64             `json:"earned"`
	Lucky    bool                `json:"lucky"`
	Steps    []scoring.Step      `json:"steps,omitempty"`
	Streak   *models.Streak      `json:"streak,omitempty"`
	Session  SessionView         `json:"session"`
}

type reviewService struct {
	deckRepo    repository.DeckRepository
	cardRepo    repository.CardRepository
	counterRepo repository.CounterRepository
	sessionRepo repository.SessionRepository
	jobQueue    jobs.JobQueue
	classic     *variant.Builder
	ai          *variant.Builder
	engine      *session.Engine
	checker     variant.Checker
	config      ReviewConfig
	clock       Clock

	locks sync.Map // deck id -> *sync.Mutex
}

// NewReviewService creates a new ReviewService. ai may be nil, in which
// case AI-mode sessions are unavailable.
func NewReviewService(
	deckRepo repository.DeckRepository,
	cardRepo repository.CardRepository,
	counterRepo repository.CounterRepository,
	sessionRepo repository.SessionRepository,
	jobQueue jobs.JobQueue,
	ai *variant.Builder,
	engine *session.Engine,
	config ReviewConfig,
	clock Clock,
) ReviewService {
	if engine == nil {
		engine = session.NewEngine(flashcard.DefaultParams(), session.DefaultRequeuePolicy(), nil)
	}
	return &reviewService{
		deckRepo:    deckRepo,
		cardRepo:    cardRepo,
		counterRepo: counterRepo,
		sessionRepo: sessionRepo,
		jobQueue:    jobQueue,
		classic:     variant.NewBuilder(variant.ClassicGenerator{}, 1),
		ai:          ai,
		engine:      engine,
		checker:     variant.Checker{TypingTolerance: config.TypingTolerance},
		config:      config,
		clock:       clock,
	}
}

func (s *reviewService) lock(deckID string) func() {
	m, _ := s.locks.LoadOrStore(deckID, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *reviewService) today() string {
	return counters.DayKey(s.clock.now(), s.config.Location)
}

func (s *reviewService) requireDeck(ctx context.Context, deckID string) error {
	deck, err := s.deckRepo.Get(ctx, deckID)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if deck == nil {
		return errors.NewNotFoundError("deck", deckID)
	}
	return nil
}

func (s *reviewService) DueCards(ctx context.Context, deckID string) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("review_service")
	log.Debug("selecting due cards: deck_id=%s", deckID)

	if err := s.requireDeck(ctx, deckID); err != nil {
		return nil, err
	}
	return s.dueCards(ctx, deckID)
}

func (s *reviewService) dueCards(ctx context.Context, deckID string) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("review_service")

	cards, err := s.cardRepo.ListByDeck(ctx, deckID)
	if err != nil {
		log.Error("failed to read cards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	consumed, err := s.counterRepo.Get(ctx, counters.NewCardsKey(deckID), s.today())
	if err != nil {
		log.Error("failed to read new-card counter: %v", err)
		return nil, errors.NewInternalError(err)
	}

	allowance := flashcard.NewAllowance(s.config.DailyNewLimit, consumed)
	due := flashcard.SelectDue(cards, deckID, s.clock.now(), allowance)
	log.Debug("deck %s: %d cards, %d due, %d new allowed", deckID, len(cards), len(due), allowance)
	return due, nil
}

func (s *reviewService) StartSession(ctx context.Context, deckID string, mode models.ReviewMode, opts StartOptions) (*SessionView, error) {
	log := logger.FromContext(ctx).WithPrefix("review_service")
	log.Debug("starting session: deck_id=%s, mode=%s, run_length=%d", deckID, mode, opts.RunLength)

	if !mode.Valid() {
		return nil, errors.NewValidationError("mode", "must be classic or ai")
	}
	runLength := opts.RunLength
	if runLength == 0 {
		runLength = s.config.RunLength
	}
	if runLength < 1 || (s.config.MaxRunLength > 0 && runLength > s.config.MaxRunLength) {
		return nil, errors.NewValidationError("runLength", fmt.Sprintf("must be between 1 and %d", s.config.MaxRunLength))
	}
	for _, a := range opts.Artifacts {
		if !a.Valid() {
			return nil, errors.NewValidationError("artifacts", fmt.Sprintf("unknown artifact %q", a))
		}
	}
	if mode == models.ModeAI && s.ai == nil {
		return nil, errors.NewUnavailableError("ai mode is not configured", nil)
	}
	if err := s.requireDeck(ctx, deckID); err != nil {
		return nil, err
	}

	unlock := s.lock(deckID)
	defer unlock()

	other, err := s.load(ctx, deckID, mode.Other())
	if err != nil {
		return nil, err
	}
	if other != nil {
		log.Warn("deck %s already has a live %s session", deckID, mode.Other())
		return nil, errors.NewConflictError(fmt.Sprintf("deck %s already has a %s session in progress", deckID, mode.Other()))
	}

	existing, err := s.load(ctx, deckID, mode)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		log.Info("resuming %s session for deck %s at %d/%d", mode, deckID, existing.Index, len(existing.Queue))
		view := newSessionView(*existing)
		view.Resumed = true
		return &view, nil
	}

	due, err := s.dueCards(ctx, deckID)
	if err != nil {
		return nil, err
	}
	due = flashcard.Truncate(due, runLength)
	if len(due) == 0 {
		return nil, errors.NewNotFoundError("due cards for deck", deckID)
	}

	builder := s.classic
	if mode == models.ModeAI {
		builder = s.ai
	}
	queue, err := builder.Build(ctx, due)
	if err != nil {
		log.Error("failed to build %s session for deck %s: %v", mode, deckID, err)
		if mode == models.ModeAI {
			return nil, errors.NewUnavailableError("could not generate quiz variants, try again", err)
		}
		return nil, errors.NewInternalError(err)
	}

	now := s.clock.now()
	st := session.New(deckID, mode, runLength, queue, models.NewGameState(opts.Artifacts...), now)
	if err := s.save(ctx, st); err != nil {
		return nil, err
	}

	log.Info("started %s session for deck %s with %d cards", mode, deckID, len(queue))
	view := newSessionView(st)
	return &view, nil
}

func (s *reviewService) GetSession(ctx context.Context, deckID string, mode models.ReviewMode) (*SessionView, error) {
	log := logger.FromContext(ctx).WithPrefix("review_service")
	log.Debug("getting session: deck_id=%s, mode=%s", deckID, mode)

	if !mode.Valid() {
		return nil, errors.NewValidationError("mode", "must be classic or ai")
	}
	unlock := s.lock(deckID)
	defer unlock()

	st, err := s.mustLoad(ctx, deckID, mode)
	if err != nil {
		return nil, err
	}
	view := newSessionView(*st)
	return &view, nil
}

func (s *reviewService) Grade(ctx context.Context, deckID string, mode models.ReviewMode, grade models.Grade, seconds float64) (*StepResult, error) {
	log := logger.FromContext(ctx).WithPrefix("review_service")
	log.Debug("grading: deck_id=%s, mode=%s, grade=%s, seconds=%.1f", deckID, mode, grade, seconds)

	if !mode.Valid() {
		return nil, errors.NewValidationError("mode", "must be classic or ai")
	}
	if !grade.Valid() {
		return nil, errors.NewValidationError("grade", "must be wrong, hard, good or easy")
	}
	if seconds < 0 {
		return nil, errors.NewValidationError("seconds", "cannot be negative")
	}

	unlock := s.lock(deckID)
	defer unlock()

	st, err := s.mustLoad(ctx, deckID, mode)
	if err != nil {
		return nil, err
	}
	return s.step(ctx, *st, grade, seconds)
}

func (s *reviewService) Answer(ctx context.Context, deckID string, mode models.ReviewMode, answer string, seconds float64) (*StepResult, error) {
	log := logger.FromContext(ctx).WithPrefix("review_service")
	log.Debug("answering: deck_id=%s, mode=%s, seconds=%.1f", deckID, mode, seconds)

	if !mode.Valid() {
		return nil, errors.NewValidationError("mode", "must be classic or ai")
	}
	if seconds < 0 {
		return nil, errors.NewValidationError("seconds", "cannot be negative")
	}

	unlock := s.lock(deckID)
	defer unlock()

	st, err := s.mustLoad(ctx, deckID, mode)
	if err != nil {
		return nil, err
	}
	cur, ok := st.Current()
	if !ok {
		return &StepResult{Session: newSessionView(*st)}, nil
	}

	correct, err := s.checker.Check(cur.Variant, answer)
	if err != nil {
		return nil, errors.NewBadRequestError(err.Error())
	}
	grade := variant.AutoGrade(correct, seconds)

	res, err := s.step(ctx, *st, grade, seconds)
	if err != nil {
		return nil, err
	}
	res.Correct = &correct
	return res, nil
}

// step grades the current card and writes every consequence: the card,
// the new-card counter, review history, the streak and the session.
// Callers hold the deck lock.
func (s *reviewService) step(ctx context.Context, st session.State, grade models.Grade, seconds float64) (*StepResult, error) {
	log := logger.FromContext(ctx).WithPrefix("review_service")
	now := s.clock.now()

	out, ok := s.engine.Step(st, session.Input{Grade: grade, Seconds: seconds, Now: now})
	if !ok {
		log.Debug("no current card in %s session for deck %s", st.Mode, st.DeckID)
		return &StepResult{Session: newSessionView(st)}, nil
	}

	if err := s.cardRepo.Update(ctx, out.Graded.Card); err != nil {
		if !stderrors.Is(err, sql.ErrNoRows) {
			log.Error("failed to save graded card %s: %v", out.Graded.ID, err)
			return nil, errors.NewInternalError(err)
		}
		log.Warn("graded card %s no longer exists", out.Graded.ID)
	}

	today := counters.DayKey(now, s.config.Location)
	if out.WasNew {
		if _, err := s.counterRepo.Increment(ctx, counters.NewCardsKey(st.DeckID), today); err != nil {
			log.Warn("failed to count new card for deck %s: %v", st.DeckID, err)
		}
	}

	if s.jobQueue != nil {
		err := s.jobQueue.EnqueueReview(models.ReviewHistory{
			CardID:      out.Graded.ID,
			DeckID:      st.DeckID,
			Grade:       grade,
			TimeSeconds: seconds,
			ReviewedAt:  now,
		})
		if err != nil {
			// Don't fail the review if history storage fails
			log.Warn("failed to enqueue review history: %v", err)
		}
	}

	graded := out.Graded
	res := &StepResult{
		Applied:  true,
		Grade:    grade,
		Graded:   &graded,
		Requeued: out.Requeued,
		Earned:   out.Score.Earned,
		Lucky:    out.Score.Lucky,
		Steps:    out.Score.Steps,
		Session:  newSessionView(out.State),
	}

	if out.Finished() {
		streak, err := s.bumpStreak(ctx, today)
		if err != nil {
			log.Warn("failed to update streak: %v", err)
		} else {
			res.Streak = &streak
		}
		if err := s.sessionRepo.Delete(ctx, st.Mode, st.DeckID); err != nil {
			log.Error("failed to clear finished session: %v", err)
			return nil, errors.NewInternalError(err)
		}
		log.Info("finished %s session for deck %s: score=%.0f", st.Mode, st.DeckID, out.State.Game.Score)
		return res, nil
	}

	if err := s.save(ctx, out.State); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *reviewService) bumpStreak(ctx context.Context, today string) (models.Streak, error) {
	prev, err := s.counterRepo.GetStreak(ctx)
	if err != nil {
		return models.Streak{}, err
	}
	next := counters.NextStreak(prev, today)
	if next != prev {
		if err := s.counterRepo.SaveStreak(ctx, next); err != nil {
			return models.Streak{}, err
		}
	}
	return next, nil
}

func (s *reviewService) ApplyEvent(ctx context.Context, deckID string, mode models.ReviewMode, ev scoring.Event) (*SessionView, error) {
	log := logger.FromContext(ctx).WithPrefix("review_service")
	log.Debug("applying event: deck_id=%s, mode=%s, event=%s", deckID, mode, ev)

	if !mode.Valid() {
		return nil, errors.NewValidationError("mode", "must be classic or ai")
	}
	if _, err := scoring.ParseEvent(string(ev)); err != nil {
		return nil, errors.NewValidationError("event", err.Error())
	}

	unlock := s.lock(deckID)
	defer unlock()

	st, err := s.mustLoad(ctx, deckID, mode)
	if err != nil {
		return nil, err
	}
	queue, err := s.engine.Scorer.ApplyEvent(st.Queue, st.Index, ev, st.Game)
	if err != nil {
		return nil, errors.NewBadRequestError(err.Error())
	}
	st.Queue = queue
	st.UpdatedAt = s.clock.now().UnixMilli()
	if err := s.save(ctx, *st); err != nil {
		return nil, err
	}
	view := newSessionView(*st)
	return &view, nil
}

func (s *reviewService) EndSession(ctx context.Context, deckID string, mode models.ReviewMode) error {
	log := logger.FromContext(ctx).WithPrefix("review_service")
	log.Debug("ending session: deck_id=%s, mode=%s", deckID, mode)

	if !mode.Valid() {
		return errors.NewValidationError("mode", "must be classic or ai")
	}
	unlock := s.lock(deckID)
	defer unlock()

	if err := s.sessionRepo.Delete(ctx, mode, deckID); err != nil {
		log.Error("failed to delete session: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *reviewService) ListSessions(ctx context.Context) ([]models.SessionRef, error) {
	log := logger.FromContext(ctx).WithPrefix("review_service")
	log.Debug("listing sessions")

	refs, err := s.sessionRepo.List(ctx)
	if err != nil {
		log.Error("failed to list sessions: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return refs, nil
}

// load reads the stored session, or nil when there is none. A blob that
// does not decode is discarded and treated as absent.
func (s *reviewService) load(ctx context.Context, deckID string, mode models.ReviewMode) (*session.State, error) {
	log := logger.FromContext(ctx).WithPrefix("review_service")

	data, err := s.sessionRepo.Get(ctx, mode, deckID)
	if err != nil {
		log.Error("failed to read session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if data == nil {
		return nil, nil
	}

	st, err := session.Decode(data)
	if err == nil && (st.DeckID != deckID || st.Mode != mode) {
		err = fmt.Errorf("stored under %s/%s but describes %s/%s", mode, deckID, st.Mode, st.DeckID)
	}
	if err == nil && st.IsFinished() {
		err = fmt.Errorf("session already finished")
	}
	if err != nil {
		log.Warn("discarding stored %s session for deck %s: %v", mode, deckID, err)
		if err := s.sessionRepo.Delete(ctx, mode, deckID); err != nil {
			log.Error("failed to discard session: %v", err)
			return nil, errors.NewInternalError(err)
		}
		return nil, nil
	}
	return &st, nil
}

func (s *reviewService) mustLoad(ctx context.Context, deckID string, mode models.ReviewMode) (*session.State, error) {
	st, err := s.load(ctx, deckID, mode)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, errors.NewNotFoundError(string(mode)+" session for deck", deckID)
	}
	return st, nil
}

func (s *reviewService) save(ctx context.Context, st session.State) error {
	log := logger.FromContext(ctx).WithPrefix("review_service")

	data, err := session.Encode(st)
	if err != nil {
		log.Error("failed to encode session: %v", err)
		return errors.NewInternalError(err)
	}
	if err := s.sessionRepo.Save(ctx, st.Mode, st.DeckID, data, st.UpdatedAt); err != nil {
		log.Error("failed to save session: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func newSessionView(st session.State) SessionView {
	v := SessionView{
		DeckID:    st.DeckID,
		Mode:      st.Mode,
		RunLength: st.RunLength,
		Index:     st.Index,
		Total:     len(st.Queue),
		Remaining: st.Remaining(),
		Finished:  st.IsFinished(),
		Game:      st.Game,
	}
	if cur, ok := st.Current(); ok {
		v.Current = &cur
	}
	return v
}
