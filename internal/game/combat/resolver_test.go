package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/wisperwind/internal/game/combat"
	"github.com/cory-johannsen/wisperwind/internal/game/dice/dicetest"
	"github.com/cory-johannsen/wisperwind/internal/game/refdata"
	"github.com/cory-johannsen/wisperwind/internal/gameerr"
)

type catalog map[string]*refdata.ItemTemplate

func (c catalog) Item(id string) (*refdata.ItemTemplate, bool) {
	it, ok := c[id]
	return it, ok
}

func testCatalog() catalog {
	return catalog{
		"gel":  {ID: "gel", Name: "Slime Gel"},
		"herb": {ID: "herb", Name: "Herb"},
	}
}

// newSession returns a session with player attack 10, defense 5 against the slime.
func newSession(t require.TestingT) *combat.Session {
	hero := newHero(t)
	hero.Stats.Attack = 10
	hero.Stats.Defense = 5
	return &combat.Session{
		AccountID: "acct-1",
		Player:    hero,
		Monster:   combat.NewMonsterInstance(slimeTemplate()),
		State:     combat.StateActive,
	}
}

func TestResolveAction_PlainHitAndCounter(t *testing.T) {
	s := newSession(t)
	src := dicetest.NewScripted(0.5)

	res, err := combat.ResolveAction(s, combat.ActionAttack, src, testCatalog())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"You attack Slime for 5 damage.",
		"Slime attacks you for 3 damage.",
	}, res.Log)
	assert.Equal(t, 5, res.PlayerDamage)
	assert.Equal(t, 3, res.MonsterDamage)
	assert.False(t, res.Critical)
	assert.Equal(t, combat.OutcomeContinue, res.Outcome)
	assert.Nil(t, res.Rewards)
	assert.Equal(t, 15, s.Monster.CurrentHP)
	assert.Equal(t, 97, s.Player.Stats.HP)
	assert.Equal(t, combat.StateActive, s.State)
}

func TestResolveAction_CriticalDoublesDamage(t *testing.T) {
	s := newSession(t)
	res, err := combat.ResolveAction(s, combat.ActionAttack, dicetest.NewScripted(0.05), testCatalog())
	require.NoError(t, err)
	assert.True(t, res.Critical)
	assert.Equal(t, 10, res.PlayerDamage)
	assert.Equal(t, "Critical hit! You attack Slime for 10 damage.", res.Log[0])
	assert.Equal(t, 10, s.Monster.CurrentHP)
}

func TestResolveAction_VictorySkipsCounterAndGrantsRewards(t *testing.T) {
	s := newSession(t)
	s.Monster.CurrentHP = 3
	hpBefore := s.Player.Stats.HP
	// crit roll, then one roll per drop entry.
	src := dicetest.NewScripted(0.5, 0.99, 0.0)

	res, err := combat.ResolveAction(s, combat.ActionAttack, src, testCatalog())
	require.NoError(t, err)

	assert.Equal(t, combat.OutcomeVictory, res.Outcome)
	assert.Equal(t, combat.StateResolved, s.State)
	assert.Equal(t, 0, res.MonsterDamage)
	assert.Equal(t, hpBefore, s.Player.Stats.HP, "no counter-attack on the killing round")
	assert.Equal(t, []string{
		"You attack Slime for 5 damage.",
		"\nSlime is defeated!",
		"You gained 20 XP.",
		"You obtained: Slime Gel!",
	}, res.Log)
	require.NotNil(t, res.Rewards)
	assert.Equal(t, 20, res.Rewards.XP)
	assert.Equal(t, 20, s.Player.XP)
	require.Len(t, res.Rewards.Items, 1)
	assert.Equal(t, "gel", res.Rewards.Items[0].ID)
	assert.Equal(t, 1, s.Player.Inventory.Count("gel"))
	assert.Equal(t, 0, s.Player.Inventory.Count("herb"), "chance 0.0 never drops")
	f, i := src.Remaining()
	assert.Zero(t, f)
	assert.Zero(t, i)
}

func TestResolveAction_MultipleDropsInOneVictory(t *testing.T) {
	s := newSession(t)
	s.Monster.Template = &refdata.MonsterTemplate{
		ID: "slime", Name: "Slime", Level: 1, HP: 1, Attack: 1, Defense: 0,
		Drops: []refdata.Drop{{ItemID: "gel", Chance: 0.5}, {ItemID: "herb", Chance: 0.5}, {ItemID: "gel", Chance: 0.5}},
	}
	s.Monster.CurrentHP = 1

	res, err := combat.ResolveAction(s, combat.ActionAttack, dicetest.NewScripted(0.9, 0.1, 0.4, 0.6), testCatalog())
	require.NoError(t, err)
	require.Len(t, res.Rewards.Items, 2)
	assert.Equal(t, "gel", res.Rewards.Items[0].ID)
	assert.Equal(t, "herb", res.Rewards.Items[1].ID)
	assert.NotEqual(t, res.Rewards.Items[0].InstanceID, res.Rewards.Items[1].InstanceID)
}

func TestResolveAction_DefeatWhenCounterDropsPlayer(t *testing.T) {
	s := newSession(t)
	s.Player.Stats.HP = 2

	res, err := combat.ResolveAction(s, combat.ActionAttack, dicetest.NewScripted(0.5), testCatalog())
	require.NoError(t, err)
	assert.Equal(t, combat.OutcomeDefeat, res.Outcome)
	assert.Equal(t, combat.StateDefeated, s.State)
	assert.Equal(t, -1, s.Player.Stats.HP, "internal hp is not clamped")
	assert.Nil(t, res.Rewards)
	assert.Equal(t, "\nYou were defeated by Slime.", res.Log[len(res.Log)-1])
	assert.Equal(t, 0, s.Player.XP)
}

func TestResolveAction_UnknownActionDoesNotMutate(t *testing.T) {
	s := newSession(t)
	src := dicetest.NewScripted()

	_, err := combat.ResolveAction(s, combat.Action("flee"), src, testCatalog())
	require.Error(t, err)
	assert.ErrorIs(t, err, gameerr.ErrUnknownAction)
	assert.Equal(t, gameerr.KindValidation, gameerr.KindOf(err))
	assert.Equal(t, 20, s.Monster.CurrentHP)
	assert.Equal(t, 100, s.Player.Stats.HP)
	assert.Equal(t, 0, src.Drawn())
}

func TestResolveAction_RejectsTerminalSession(t *testing.T) {
	s := newSession(t)
	s.State = combat.StateResolved
	_, err := combat.ResolveAction(s, combat.ActionAttack, dicetest.NewScripted(), testCatalog())
	assert.ErrorIs(t, err, gameerr.ErrNoActiveCombat)
}

func TestParseAction(t *testing.T) {
	a, err := combat.ParseAction("attack")
	require.NoError(t, err)
	assert.Equal(t, combat.ActionAttack, a)

	_, err = combat.ParseAction("defend")
	assert.ErrorIs(t, err, gameerr.ErrUnknownAction)
}

func TestProperty_DamageFloor(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		atk := rapid.IntRange(-50, 500).Draw(rt, "atk")
		def := rapid.IntRange(-50, 500).Draw(rt, "def")
		d := combat.Damage(atk, def)
		assert.GreaterOrEqual(rt, d, 1)
		if atk-def >= 1 {
			assert.Equal(rt, atk-def, d)
		}
	})
}

func TestProperty_CritIsExactlyDouble(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		atk := rapid.IntRange(0, 200).Draw(rt, "atk")
		def := rapid.IntRange(0, 200).Draw(rt, "def")
		hp := rapid.IntRange(1000, 5000).Draw(rt, "hp")

		mk := func() *combat.Session {
			s := newSession(rt)
			s.Player.Stats.Attack = atk
			s.Monster.Template = &refdata.MonsterTemplate{ID: "m", Name: "M", Level: 1, HP: hp, Defense: def}
			s.Monster.CurrentHP = hp
			return s
		}
		plain, err := combat.ResolveAction(mk(), combat.ActionAttack, dicetest.NewScripted(0.5), testCatalog())
		require.NoError(rt, err)
		crit, err := combat.ResolveAction(mk(), combat.ActionAttack, dicetest.NewScripted(0.0), testCatalog())
		require.NoError(rt, err)
		assert.Equal(rt, 2*plain.PlayerDamage, crit.PlayerDamage)
	})
}

func TestProperty_VictoryXPIsLevelTimesTen(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		level := rapid.IntRange(1, 99).Draw(rt, "level")
		xp := rapid.IntRange(0, 10000).Draw(rt, "startXP")
		s := newSession(rt)
		s.Player.XP = xp
		s.Monster.Template = &refdata.MonsterTemplate{ID: "m", Name: "M", Level: level, HP: 1}
		s.Monster.CurrentHP = 1

		res, err := combat.ResolveAction(s, combat.ActionAttack, dicetest.NewScripted(0.5), testCatalog())
		require.NoError(rt, err)
		assert.Equal(rt, combat.OutcomeVictory, res.Outcome)
		assert.Equal(rt, level*10, res.Rewards.XP)
		assert.Equal(rt, xp+level*10, s.Player.XP)
	})
}

func TestProperty_DropIffDrawBelowChance(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 6).Draw(rt, "n")
		drops := make([]refdata.Drop, n)
		draws := []float64{0.5}
		want := 0
		for i := range drops {
			chance := rapid.Float64Range(0, 1).Draw(rt, "chance")
			roll := rapid.Float64Range(0, 0.9999).Draw(rt, "roll")
			drops[i] = refdata.Drop{ItemID: "gel", Chance: chance}
			draws = append(draws, roll)
			if roll < chance {
				want++
			}
		}
		s := newSession(rt)
		s.Monster.Template = &refdata.MonsterTemplate{ID: "m", Name: "M", Level: 1, HP: 1, Drops: drops}
		s.Monster.CurrentHP = 1

		res, err := combat.ResolveAction(s, combat.ActionAttack, dicetest.NewScripted(draws...), testCatalog())
		require.NoError(rt, err)
		assert.Len(rt, res.Rewards.Items, want)
		assert.Equal(rt, want, s.Player.Inventory.Count("gel"))
	})
}
