package scoring

import (
	"fmt"

	"github.com/vytor/lute/internal/models"
)

// Event grants or alters status effects on upcoming queue entries.
type Event string

const (
	EventLetTheCardsBurn Event = "let_the_cards_burn"
	EventSoak            Event = "soak"
	EventTempoUp         Event = "tempo_up"
	EventFreeze          Event = "freeze"
	EventCascade         Event = "cascade"
	EventPoisonTheWaters Event = "poison_the_waters"
	EventYinYang         Event = "yin_yang"
	EventPurify          Event = "purify"
	EventDoubleIt        Event = "double_it"
	EventAllOrNothing    Event = "all_or_nothing"
	EventChaosTheory     Event = "chaos_theory"
	EventChargeUp        Event = "charge_up"
	EventMirrorImage     Event = "mirror_image"
	EventLuckOfTheDraw   Event = "luck_of_the_draw"
	EventCursedLuck      Event = "cursed_luck"
)

// Events lists every known event.
var Events = []Event{
	EventLetTheCardsBurn, EventSoak, EventTempoUp, EventFreeze, EventCascade,
	EventPoisonTheWaters, EventYinYang, EventPurify, EventDoubleIt, EventAllOrNothing,
	EventChaosTheory, EventChargeUp, EventMirrorImage, EventLuckOfTheDraw, EventCursedLuck,
}

// ParseEvent validates an event name.
func ParseEvent(s string) (Event, error) {
	for _, e := range Events {
		if string(e) == s {
			return e, nil
		}
	}
	return "", fmt.Errorf("unknown event %q", s)
}

type grant struct {
	kind   models.EffectKind
	stacks int
}

// ApplyEvent returns a copy of queue with ev applied to the entries after
// index. Entries carrying FROZEN are left untouched. queue is not modified.
func (s *Scorer) ApplyEvent(queue []models.VariantCard, index int, ev Event, g models.GameState) ([]models.VariantCard, error) {
	if index < 0 || index >= len(queue) {
		return nil, fmt.Errorf("event %s: index %d outside queue of %d", ev, index, len(queue))
	}
	out := cloneQueue(queue)
	upcoming := func(n int, fn func(e []models.StatusEffect) []models.StatusEffect) {
		end := min(len(out), index+1+n)
		for i := index + 1; i < end; i++ {
			if isFrozen(out[i].StatusData) {
				continue
			}
			out[i].StatusData = fn(out[i].StatusData)
		}
	}
	grants := func(n int, gs ...grant) {
		upcoming(n, func(e []models.StatusEffect) []models.StatusEffect {
			for _, gr := range gs {
				e = addEffect(e, gr.kind, gr.stacks)
			}
			return e
		})
	}

	switch ev {
	case EventLetTheCardsBurn:
		grants(8, grant{models.EffectBurn, 3})
	case EventSoak:
		grants(10, grant{models.EffectWet, 2})
	case EventTempoUp:
		grants(2, grant{models.EffectTempoUp, 1})
	case EventFreeze:
		ice := g.HasArtifact(models.ArtifactIceTalisman)
		upcoming(6, func(e []models.StatusEffect) []models.StatusEffect {
			if ice {
				for i := range e {
					e[i].Stacks++
				}
			}
			return addEffect(e, models.EffectFrozen, 2)
		})
	case EventCascade:
		gs := make([]grant, 0, len(models.PositiveEffects))
		for _, k := range models.PositiveEffects {
			gs = append(gs, grant{k, 1})
		}
		grants(8, gs...)
	case EventPoisonTheWaters:
		grants(6, grant{models.EffectPoison, 3}, grant{models.EffectWet, 6})
	case EventYinYang:
		grants(6, grant{models.EffectPoison, 3}, grant{models.EffectBurn, 6})
	case EventPurify:
		upcoming(10, func(e []models.StatusEffect) []models.StatusEffect {
			kept := e[:0]
			for _, x := range e {
				if !x.Kind.Negative() {
					kept = append(kept, x)
				}
			}
			return kept
		})
	case EventDoubleIt:
		upcoming(1, func(e []models.StatusEffect) []models.StatusEffect {
			for i := range e {
				e[i].Stacks *= 2
			}
			return e
		})
	case EventAllOrNothing:
		upcoming(20, func(e []models.StatusEffect) []models.StatusEffect {
			return addEffect(e, models.AllEffects[s.rng.IntN(len(models.AllEffects))], 2)
		})
	case EventChaosTheory:
		upcoming(10, func(e []models.StatusEffect) []models.StatusEffect {
			var mixed []models.StatusEffect
			for _, x := range e {
				mixed = addEffect(mixed, models.AllEffects[s.rng.IntN(len(models.AllEffects))], x.Stacks)
			}
			return mixed
		})
	case EventChargeUp:
		grants(4, grant{models.EffectOvercharged, 1})
	case EventMirrorImage:
		current := out[index].StatusData
		upcoming(3, func(e []models.StatusEffect) []models.StatusEffect {
			for _, x := range current {
				e = addEffect(e, x.Kind, x.Stacks)
			}
			return e
		})
	case EventLuckOfTheDraw:
		grants(7, grant{models.EffectLucky, 1})
	case EventCursedLuck:
		grants(3, grant{models.EffectCursed, 1})
		grants(10, grant{models.EffectLucky, 1})
	default:
		return nil, fmt.Errorf("unknown event %q", ev)
	}
	return out, nil
}

func cloneQueue(queue []models.VariantCard) []models.VariantCard {
	out := make([]models.VariantCard, len(queue))
	copy(out, queue)
	for i := range out {
		if out[i].StatusData != nil {
			out[i].StatusData = append([]models.StatusEffect(nil), out[i].StatusData...)
		}
	}
	return out
}
