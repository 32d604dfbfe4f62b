// Package scoring implements the points overlay of a review session: a
// chain of small steps that turn a grade, its timing and the card's status
// effects into points, then commit them to the running score.
package scoring

import (
	"math/rand/v2"

	"github.com/vytor/lute/internal/models"
)

// Step names, in the order they run.
const (
	StepBase         = "base"
	StepTimePoints   = "timePoints"
	StepReturnPoints = "returnPoints"
	StepTimeMult     = "timeMult"
	StepStreak       = "streak"
	StepEffects      = "effects"
	StepMult         = "mult"
	StepLucky        = "lucky"
	StepSave         = "save"
)

const (
	timeBonusSeconds  = 60.0
	timeMultDivisor   = 500.0
	returnBonus       = 250.0
	streakBonus       = 0.1
	windTimeFactor    = 1.25
	windStreakFactor  = 1.2
	luckyChance       = 0.33
	gamblerLuckChance = 0.66
	luckyFactor       = 1.2
)

var basePoints = map[models.Grade]float64{
	models.GradeEasy:  500,
	models.GradeGood:  300,
	models.GradeHard:  200,
	models.GradeWrong: 100,
}

// Rand is the randomness the overlay needs. *rand.Rand from math/rand/v2
// satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) IntN(n int) int   { return rand.IntN(n) }

// Input describes one graded card.
type Input struct {
	Grade    models.Grade
	Seconds  float64
	Returned bool // the card was requeued at least once this session
	Effects  []models.StatusEffect
}

// Step is a snapshot of the running values after a named step.
type Step struct {
	Name       string  `json:"name"`
	Points     float64 `json:"points"`
	Multiplier float64 `json:"multiplier"`
}

// Result is the outcome of scoring a single card.
type Result struct {
	State  models.GameState `json:"gameState"`
	Earned float64          `json:"earned"`
	Lucky  bool             `json:"lucky"`
	Steps  []Step           `json:"steps"`
}

// Scorer runs the step chain. It is safe for concurrent use when its Rand is.
type Scorer struct {
	rng Rand
}

// NewScorer returns a Scorer drawing from rng, or from the process-wide
// source when rng is nil.
func NewScorer(rng Rand) *Scorer {
	if rng == nil {
		rng = globalRand{}
	}
	return &Scorer{rng: rng}
}

// Score applies in to g and returns the new state. g is not modified.
func (s *Scorer) Score(g models.GameState, in Input) Result {
	if g.Multiplier == 0 {
		g.Multiplier = 1
	}
	g.Artifacts = append([]models.Artifact(nil), g.Artifacts...)

	var res Result
	record := func(name string, tempo float64) {
		res.Steps = append(res.Steps, Step{Name: name, Points: g.Points, Multiplier: tempo})
	}

	base, ok := basePoints[in.Grade]
	if !ok {
		base = basePoints[models.GradeGood]
	}
	g.Points = base
	record(StepBase, g.Multiplier)

	speed := max(0, timeBonusSeconds-in.Seconds)
	g.Points += speed
	record(StepTimePoints, g.Multiplier)

	if in.Returned && (in.Grade == models.GradeGood || in.Grade == models.GradeEasy) {
		g.Points += returnBonus
		record(StepReturnPoints, g.Multiplier)
	}

	timeMult := speed / timeMultDivisor
	if g.HasArtifact(models.ArtifactWindBracelet) {
		timeMult *= windTimeFactor
	}
	g.Multiplier += timeMult
	record(StepTimeMult, g.Multiplier)

	if in.Grade != models.GradeWrong {
		bonus := streakBonus
		if g.HasArtifact(models.ArtifactWindBracelet) {
			bonus *= windStreakFactor
		}
		g.Multiplier += bonus
		g.Streak++
	} else {
		g.Multiplier = 1
		g.Streak = 0
	}
	record(StepStreak, g.Multiplier)

	tempo := g.Multiplier
	if len(in.Effects) > 0 {
		var cursed bool
		tempo, cursed = applyEffects(&g, in.Effects, tempo)
		if cursed {
			g.Multiplier = 1
			g.Streak = 0
		}
		record(StepEffects, tempo)
	}

	g.Points *= tempo
	record(StepMult, tempo)

	if stacks(in.Effects, models.EffectLucky) > 0 {
		chance := luckyChance
		if g.HasArtifact(models.ArtifactGamblersDice) {
			chance = gamblerLuckChance
		}
		if s.rng.Float64() < chance {
			g.Points *= luckyFactor
			res.Lucky = true
		}
		record(StepLucky, tempo)
	}

	res.Earned = g.Points
	g.Score += g.Points
	g.Points = 0
	record(StepSave, g.Multiplier)

	res.State = g
	return res
}
