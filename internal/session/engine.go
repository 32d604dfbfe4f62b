package session

import (
	"time"

	"github.com/vytor/lute/internal/flashcard"
	"github.com/vytor/lute/internal/models"
	"github.com/vytor/lute/internal/scoring"
)

// Engine runs one grading step: schedule the current card, maybe requeue
// it, score it, and move the cursor.
type Engine struct {
	Params flashcard.Params
	Policy RequeuePolicy
	Scorer *scoring.Scorer
}

func NewEngine(params flashcard.Params, policy RequeuePolicy, scorer *scoring.Scorer) *Engine {
	if scorer == nil {
		scorer = scoring.NewScorer(nil)
	}
	return &Engine{Params: params, Policy: policy, Scorer: scorer}
}

// Input is one answer to the current card.
type Input struct {
	Grade   models.Grade
	Seconds float64
	Now     time.Time
}

// Outcome is everything a caller needs to persist after a step.
type Outcome struct {
	State    State
	Graded   models.VariantCard
	WasNew   bool
	Requeued bool
	Score    scoring.Result
}

// Finished reports whether the step consumed the last card.
func (o Outcome) Finished() bool {
	return o.State.IsFinished()
}

// Step applies in to the current card of s. It returns false, leaving
// nothing to persist, when the session has no current card.
func (e *Engine) Step(s State, in Input) (Outcome, bool) {
	cur, ok := s.Current()
	if !ok {
		return Outcome{State: s}, false
	}

	s, graded, _ := Grade(s, e.Params, in.Grade, in.Now)
	s, requeued := e.Policy.Requeue(s, graded, in.Now)

	score := e.Scorer.Score(s.Game, scoring.Input{
		Grade:    in.Grade,
		Seconds:  in.Seconds,
		Returned: cur.RunReturnedCount > 0,
		Effects:  cur.StatusData,
	})
	s.Game = score.State
	s = Advance(s)

	return Outcome{
		State:    s,
		Graded:   graded,
		WasNew:   cur.Status == models.StatusNew,
		Requeued: requeued,
		Score:    score,
	}, true
}
