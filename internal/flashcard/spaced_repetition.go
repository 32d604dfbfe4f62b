package flashcard

import (
	"math"
	"time"

	"github.com/vytor/lute/internal/models"
)

const day = 24 * time.Hour

// Params holds the tunable knobs of the scheduler.
type Params struct {
	LearningSteps   []time.Duration // steps for new cards
	RelearningSteps []time.Duration // steps for lapsed review cards

	StartEase         float64
	MinEase           float64
	EasyBonus         float64
	HardMultiplier    float64
	LapseIntervalMult float64

	EasyEaseDelta  float64
	HardEaseDelta  float64
	LapseEaseDelta float64

	// EasyGraduationInterval is the interval in days given to a new card graded easy.
	EasyGraduationInterval int
}

// DefaultParams returns the standard schedule: 10m then 1d for learning,
// 10m for relearning.
func DefaultParams() Params {
	return Params{
		LearningSteps:          []time.Duration{10 * time.Minute, day},
		RelearningSteps:        []time.Duration{10 * time.Minute},
		StartEase:              2.5,
		MinEase:                1.3,
		EasyBonus:              1.3,
		HardMultiplier:         1.2,
		LapseIntervalMult:      0.5,
		EasyEaseDelta:          0.15,
		HardEaseDelta:          -0.15,
		LapseEaseDelta:         -0.20,
		EasyGraduationInterval: 4,
	}
}

// StepsFor returns the step schedule active for status, or nil if the
// status does not use steps.
func (p Params) StepsFor(status models.CardStatus) []time.Duration {
	switch status {
	case models.StatusLearning:
		return p.LearningSteps
	case models.StatusRelearning:
		return p.RelearningSteps
	default:
		return nil
	}
}

// Normalize fills fields that older records may lack and clamps the
// learning step into the active schedule.
func (p Params) Normalize(card models.Card, now time.Time) models.Card {
	if !card.Status.Valid() {
		card.Status = models.StatusNew
	}
	if card.Ease == 0 {
		card.Ease = p.StartEase
	}
	card.Ease = p.floorEase(card.Ease)
	if card.Interval < 0 {
		card.Interval = 0
	}
	if card.Reps < 0 {
		card.Reps = 0
	}
	if card.Lapses < 0 {
		card.Lapses = 0
	}
	if card.NextReview == 0 {
		card.NextReview = now.UnixMilli()
	}
	steps := p.StepsFor(card.Status)
	if card.LearningStep < 0 || len(steps) == 0 {
		card.LearningStep = 0
	} else if card.LearningStep >= len(steps) {
		card.LearningStep = len(steps) - 1
	}
	return card
}

// Review computes the card's next scheduling state after grade at now.
// It is pure: the input card is not modified.
func (p Params) Review(card models.Card, grade models.Grade, now time.Time) models.Card {
	c := p.Normalize(card, now)

	switch c.Status {
	case models.StatusNew:
		return p.reviewNew(c, grade, now)
	case models.StatusLearning, models.StatusRelearning:
		return p.reviewLearning(c, grade, now)
	case models.StatusReview:
		return p.reviewMature(c, grade, now)
	}

	// Unreachable after Normalize.
	c.NextReview = now.Add(day).UnixMilli()
	return c
}

func (p Params) reviewNew(c models.Card, grade models.Grade, now time.Time) models.Card {
	if grade == models.GradeEasy {
		c.Status = models.StatusReview
		c.LearningStep = 0
		c.Reps++
		c.Interval = p.EasyGraduationInterval
		c.NextReview = dueInDays(now, c.Interval)
		return c
	}

	// wrong, hard and good all enter the first learning step.
	c.Status = models.StatusLearning
	c.LearningStep = 0
	c.NextReview = p.dueAfterStep(now, p.LearningSteps, 0)
	return c
}

func (p Params) reviewLearning(c models.Card, grade models.Grade, now time.Time) models.Card {
	steps := p.StepsFor(c.Status)

	if grade == models.GradeWrong {
		c.LearningStep = 0
		c.NextReview = p.dueAfterStep(now, steps, 0)
		return c
	}

	next := c.LearningStep + 1
	if next < len(steps) {
		c.LearningStep = next
		c.NextReview = p.dueAfterStep(now, steps, next)
		return c
	}

	// Steps exhausted: graduate.
	c.Status = models.StatusReview
	c.LearningStep = 0
	c.Reps++
	if c.Interval <= 0 {
		c.Interval = 1
	}
	switch grade {
	case models.GradeEasy:
		c.Interval = roundInterval(float64(c.Interval) * p.EasyBonus)
		c.Ease = p.floorEase(c.Ease + p.EasyEaseDelta)
	case models.GradeHard:
		c.Interval = roundInterval(float64(c.Interval) * p.HardMultiplier)
		c.Ease = p.floorEase(c.Ease + p.HardEaseDelta)
	default:
		c.Interval = max(1, c.Interval)
	}
	c.NextReview = dueInDays(now, c.Interval)
	return c
}

func (p Params) reviewMature(c models.Card, grade models.Grade, now time.Time) models.Card {
	switch grade {
	case models.GradeWrong:
		c.Lapses++
		c.Status = models.StatusRelearning
		c.LearningStep = 0
		c.Interval = roundInterval(float64(c.Interval) * p.LapseIntervalMult)
		c.Ease = p.floorEase(c.Ease + p.LapseEaseDelta)
		c.NextReview = p.dueAfterStep(now, p.RelearningSteps, 0)
		return c
	case models.GradeHard:
		c.Interval = roundInterval(float64(c.Interval) * p.HardMultiplier)
		c.Ease = p.floorEase(c.Ease + p.HardEaseDelta)
	case models.GradeGood:
		c.Interval = roundInterval(float64(c.Interval) * c.Ease)
	case models.GradeEasy:
		c.Interval = roundInterval(float64(c.Interval) * c.Ease * p.EasyBonus)
		c.Ease = p.floorEase(c.Ease + p.EasyEaseDelta)
	}
	c.Reps++
	c.NextReview = dueInDays(now, c.Interval)
	return c
}

func (p Params) floorEase(e float64) float64 {
	// Two decimals keep repeated +/-0.15 steps from drifting.
	e = math.Round(e*100) / 100
	if e < p.MinEase {
		return p.MinEase
	}
	return e
}

func (p Params) dueAfterStep(now time.Time, steps []time.Duration, i int) int64 {
	if i < 0 || i >= len(steps) {
		return now.Add(p.fallbackStep()).UnixMilli()
	}
	return now.Add(steps[i]).UnixMilli()
}

func (p Params) fallbackStep() time.Duration {
	if len(p.RelearningSteps) > 0 {
		return p.RelearningSteps[0]
	}
	return 10 * time.Minute
}

func roundInterval(days float64) int {
	return max(1, int(math.Round(days)))
}

func dueInDays(now time.Time, days int) int64 {
	return now.Add(time.Duration(days) * day).UnixMilli()
}

var defaultParams = DefaultParams()

// ApplyReview schedules card with the default parameters.
func ApplyReview(card models.Card, grade models.Grade, now time.Time) models.Card {
	return defaultParams.Review(card, grade, now)
}

// NewCard returns a fresh, immediately due card.
func NewCard(id, deckID, question, answer string, now time.Time) models.Card {
	return models.Card{
		ID:         id,
		DeckID:     deckID,
		Question:   question,
		Answer:     answer,
		Status:     models.StatusNew,
		Ease:       defaultParams.StartEase,
		NextReview: now.UnixMilli(),
	}
}
