package scoring

import "github.com/vytor/lute/internal/models"

const (
	burnBase          = 50.0
	burnFireRing      = 100.0
	poisonBase        = -50.0
	poisonSnakeCharm  = 25.0
	wetTempo          = 0.05
	wetWaterAmulet    = 0.1
	tempoUpPerStack   = 0.5
	vaporiseTempo     = 0.1
	steamCorePoints   = 100.0
	overchargeBoost   = 2.0
	superchargerBoost = 2.2
)

// applyEffects adds the card's effect bonuses to g.Points and returns the
// card-local tempo. cursed reports whether the run's streak must reset.
func applyEffects(g *models.GameState, effects []models.StatusEffect, tempo float64) (float64, bool) {
	burn := float64(stacks(effects, models.EffectBurn))
	wet := float64(stacks(effects, models.EffectWet))
	poison := float64(stacks(effects, models.EffectPoison))
	tempoUp := float64(stacks(effects, models.EffectTempoUp))

	boost := 1.0
	if stacks(effects, models.EffectOvercharged) > 0 {
		boost = overchargeBoost
		if g.HasArtifact(models.ArtifactSupercharger) {
			boost = superchargerBoost
		}
	}

	if burn > 0 {
		per := burnBase
		if g.HasArtifact(models.ArtifactFireRing) {
			per = burnFireRing
		}
		g.Points += per * burn * boost
	}
	if poison > 0 {
		if g.HasArtifact(models.ArtifactSnakeCharm) {
			g.Points += poisonSnakeCharm * poison * boost
		} else {
			g.Points += poisonBase * poison
		}
	}
	if wet > 0 {
		per := wetTempo
		if g.HasArtifact(models.ArtifactWaterAmulet) {
			per = wetWaterAmulet
		}
		tempo += per * wet * boost
	}
	if tempoUp > 0 {
		tempo *= 1 + tempoUpPerStack*tempoUp*boost
	}
	if burn > 0 && wet > 0 {
		avg := (burn + wet) / 2
		tempo *= 1 + vaporiseTempo*avg*boost
		if g.HasArtifact(models.ArtifactSteamCore) {
			g.Points += steamCorePoints * avg
		}
	}

	if stacks(effects, models.EffectCursed) > 0 {
		return 1, true
	}
	return tempo, false
}

func stacks(effects []models.StatusEffect, kind models.EffectKind) int {
	n := 0
	for _, e := range effects {
		if e.Kind == kind {
			n += e.Stacks
		}
	}
	return n
}

// addEffect returns effects with n stacks of kind added, merging into an
// existing entry of the same kind.
func addEffect(effects []models.StatusEffect, kind models.EffectKind, n int) []models.StatusEffect {
	if n <= 0 {
		return effects
	}
	for i := range effects {
		if effects[i].Kind == kind {
			effects[i].Stacks += n
			return effects
		}
	}
	return append(effects, models.StatusEffect{Kind: kind, Stacks: n})
}

func isFrozen(effects []models.StatusEffect) bool {
	return stacks(effects, models.EffectFrozen) > 0
}
