package scoring_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lute/internal/models"
	"github.com/vytor/lute/internal/scoring"
)

func queueOf(n int) []models.VariantCard {
	q := make([]models.VariantCard, n)
	for i := range q {
		q[i] = models.VariantCard{Card: models.Card{ID: fmt.Sprintf("c%d", i)}}
	}
	return q
}

func stackOf(vc models.VariantCard, kind models.EffectKind) int {
	n := 0
	for _, e := range vc.StatusData {
		if e.Kind == kind {
			n += e.Stacks
		}
	}
	return n
}

func TestApplyEvent_GrantsUpcoming(t *testing.T) {
	sc := scoring.NewScorer(fixedRand{})
	q := queueOf(12)

	out, err := sc.ApplyEvent(q, 0, scoring.EventLetTheCardsBurn, models.NewGameState())
	require.NoError(t, err)

	assert.Zero(t, stackOf(out[0], models.EffectBurn), "current card is not upcoming")
	for i := 1; i <= 8; i++ {
		assert.Equal(t, 3, stackOf(out[i], models.EffectBurn), "entry %d", i)
	}
	assert.Zero(t, stackOf(out[9], models.EffectBurn))
	for _, vc := range q {
		assert.Empty(t, vc.StatusData, "input queue is not modified")
	}
}

func TestApplyEvent_StopsAtQueueEnd(t *testing.T) {
	sc := scoring.NewScorer(fixedRand{})

	out, err := sc.ApplyEvent(queueOf(4), 2, scoring.EventSoak, models.NewGameState())
	require.NoError(t, err)
	require.Len(t, out, 4)
	assert.Equal(t, 2, stackOf(out[3], models.EffectWet))
}

func TestApplyEvent_FrozenEntriesUnchanged(t *testing.T) {
	sc := scoring.NewScorer(fixedRand{})
	q := queueOf(5)
	q[2].StatusData = []models.StatusEffect{{Kind: models.EffectFrozen, Stacks: 2}}

	out, err := sc.ApplyEvent(q, 0, scoring.EventSoak, models.NewGameState())
	require.NoError(t, err)

	assert.Equal(t, 2, stackOf(out[1], models.EffectWet))
	assert.Zero(t, stackOf(out[2], models.EffectWet))
	assert.Equal(t, 2, stackOf(out[3], models.EffectWet))
}

func TestApplyEvent_Purify(t *testing.T) {
	sc := scoring.NewScorer(fixedRand{})
	q := queueOf(3)
	q[1].StatusData = []models.StatusEffect{
		{Kind: models.EffectPoison, Stacks: 3},
		{Kind: models.EffectBurn, Stacks: 6},
		{Kind: models.EffectCursed, Stacks: 1},
	}

	out, err := sc.ApplyEvent(q, 0, scoring.EventPurify, models.NewGameState())
	require.NoError(t, err)

	assert.Equal(t, []models.StatusEffect{{Kind: models.EffectBurn, Stacks: 6}}, out[1].StatusData)
	assert.Len(t, q[1].StatusData, 3)
}

func TestApplyEvent_DoubleItAndMirror(t *testing.T) {
	sc := scoring.NewScorer(fixedRand{})
	q := queueOf(6)
	q[0].StatusData = []models.StatusEffect{{Kind: models.EffectLucky, Stacks: 1}}
	q[1].StatusData = []models.StatusEffect{{Kind: models.EffectBurn, Stacks: 3}}
	q[2].StatusData = []models.StatusEffect{{Kind: models.EffectBurn, Stacks: 3}}

	out, err := sc.ApplyEvent(q, 0, scoring.EventDoubleIt, models.NewGameState())
	require.NoError(t, err)
	assert.Equal(t, 6, stackOf(out[1], models.EffectBurn))
	assert.Equal(t, 3, stackOf(out[2], models.EffectBurn))

	out, err = sc.ApplyEvent(out, 0, scoring.EventMirrorImage, models.NewGameState())
	require.NoError(t, err)
	for i := 1; i <= 3; i++ {
		assert.Equal(t, 1, stackOf(out[i], models.EffectLucky), "entry %d", i)
	}
	assert.Zero(t, stackOf(out[4], models.EffectLucky))
}

func TestApplyEvent_CursedLuck(t *testing.T) {
	sc := scoring.NewScorer(fixedRand{})

	out, err := sc.ApplyEvent(queueOf(13), 0, scoring.EventCursedLuck, models.NewGameState())
	require.NoError(t, err)

	assert.Equal(t, 1, stackOf(out[3], models.EffectCursed))
	assert.Zero(t, stackOf(out[4], models.EffectCursed))
	assert.Equal(t, 1, stackOf(out[10], models.EffectLucky))
	assert.Zero(t, stackOf(out[11], models.EffectLucky))
}

func TestApplyEvent_FreezeWithIceTalisman(t *testing.T) {
	sc := scoring.NewScorer(fixedRand{})
	q := queueOf(3)
	q[1].StatusData = []models.StatusEffect{{Kind: models.EffectBurn, Stacks: 1}}

	out, err := sc.ApplyEvent(q, 0, scoring.EventFreeze, models.NewGameState(models.ArtifactIceTalisman))
	require.NoError(t, err)

	assert.Equal(t, 2, stackOf(out[1], models.EffectBurn))
	assert.Equal(t, 2, stackOf(out[1], models.EffectFrozen))
	assert.Equal(t, 2, stackOf(out[2], models.EffectFrozen))
}

func TestApplyEvent_RandomEventsUseRand(t *testing.T) {
	sc := scoring.NewScorer(fixedRand{n: 1})
	q := queueOf(4)
	q[1].StatusData = []models.StatusEffect{{Kind: models.EffectBurn, Stacks: 2}, {Kind: models.EffectPoison, Stacks: 3}}

	out, err := sc.ApplyEvent(q, 0, scoring.EventAllOrNothing, models.NewGameState())
	require.NoError(t, err)
	assert.Equal(t, 2, stackOf(out[3], models.AllEffects[1]))

	out, err = sc.ApplyEvent(q, 0, scoring.EventChaosTheory, models.NewGameState())
	require.NoError(t, err)
	assert.Equal(t, []models.StatusEffect{{Kind: models.AllEffects[1], Stacks: 5}}, out[1].StatusData)
}

func TestApplyEvent_Errors(t *testing.T) {
	sc := scoring.NewScorer(fixedRand{})

	_, err := sc.ApplyEvent(queueOf(2), 2, scoring.EventSoak, models.NewGameState())
	assert.Error(t, err)

	_, err = sc.ApplyEvent(queueOf(2), 0, scoring.Event("meteor"), models.NewGameState())
	assert.Error(t, err)

	_, err = scoring.ParseEvent("meteor")
	assert.Error(t, err)
	ev, err := scoring.ParseEvent("yin_yang")
	require.NoError(t, err)
	assert.Equal(t, scoring.EventYinYang, ev)
}
