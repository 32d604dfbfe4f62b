package models

// EffectKind is a session-local status tag attached to a queue entry.
type EffectKind string

const (
	EffectBurn        EffectKind = "burn"
	EffectWet         EffectKind = "wet"
	EffectPoison      EffectKind = "poison"
	EffectFrozen      EffectKind = "frozen"
	EffectTempoUp     EffectKind = "tempo up"
	EffectOvercharged EffectKind = "overcharged"
	EffectCursed      EffectKind = "cursed"
	EffectLucky       EffectKind = "lucky"
)

// Negative reports whether the effect hurts the score.
func (k EffectKind) Negative() bool {
	return k == EffectPoison || k == EffectCursed
}

// Valid reports whether k is a known effect.
func (k EffectKind) Valid() bool {
	switch k {
	case EffectBurn, EffectWet, EffectPoison, EffectFrozen, EffectTempoUp, EffectOvercharged, EffectCursed, EffectLucky:
		return true
	}
	return false
}

// PositiveEffects lists every effect that helps the score.
var PositiveEffects = []EffectKind{
	EffectBurn, EffectWet, EffectFrozen, EffectTempoUp, EffectOvercharged, EffectLucky,
}

// AllEffects lists every effect kind.
var AllEffects = []EffectKind{
	EffectBurn, EffectWet, EffectPoison, EffectFrozen, EffectTempoUp, EffectOvercharged, EffectCursed, EffectLucky,
}

type StatusEffect struct {
	Kind   EffectKind `json:"kind"`
	Stacks int        `json:"stacks"`
}

// Artifact is a run-wide modifier that changes how effects score.
type Artifact string

const (
	ArtifactFireRing     Artifact = "fire_ring"
	ArtifactWaterAmulet  Artifact = "water_amulet"
	ArtifactSnakeCharm   Artifact = "snake_charm"
	ArtifactWindBracelet Artifact = "wind_bracelet"
	ArtifactIceTalisman  Artifact = "ice_talisman"
	ArtifactSteamCore    Artifact = "steam_core"
	ArtifactGamblersDice Artifact = "gamblers_dice"
	ArtifactSupercharger Artifact = "supercharger"
)

// Valid reports whether a is a known artifact.
func (a Artifact) Valid() bool {
	switch a {
	case ArtifactFireRing, ArtifactWaterAmulet, ArtifactSnakeCharm, ArtifactWindBracelet,
		ArtifactIceTalisman, ArtifactSteamCore, ArtifactGamblersDice, ArtifactSupercharger:
		return true
	}
	return false
}

// GameState is the scoring overlay carried through a session.
// Multiplier (tempo) persists between cards; Points is only non-zero
// while a single card is being scored.
type GameState struct {
	Score      float64    `json:"score"`
	Points     float64    `json:"points"`
	Multiplier float64    `json:"multiplier"`
	Streak     int        `json:"streak"`
	Artifacts  []Artifact `json:"artifacts,omitempty"`
}

// NewGameState returns the state a session starts with.
func NewGameState(artifacts ...Artifact) GameState {
	return GameState{Multiplier: 1, Artifacts: artifacts}
}

// HasArtifact reports whether the run holds artifact a.
func (g GameState) HasArtifact(a Artifact) bool {
	for _, x := range g.Artifacts {
		if x == a {
			return true
		}
	}
	return false
}
