package combat_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/wisperwind/internal/game/character"
	"github.com/cory-johannsen/wisperwind/internal/game/combat"
	"github.com/cory-johannsen/wisperwind/internal/game/refdata"
	"github.com/cory-johannsen/wisperwind/internal/gameerr"
)

func slimeTemplate() *refdata.MonsterTemplate {
	return &refdata.MonsterTemplate{
		ID: "slime", Name: "Slime", Level: 2, HP: 20, Attack: 8, Defense: 5,
		Drops: []refdata.Drop{{ItemID: "gel", Chance: 1.0}, {ItemID: "herb", Chance: 0.0}},
	}
}

func newHero(t require.TestingT) *character.Character {
	c, err := character.Build("Aria", character.JobMage, character.Position{X: 10, Y: 10})
	require.NoError(t, err)
	return c
}

func TestManager_StartGetEnd(t *testing.T) {
	m := combat.NewManager()
	hero := newHero(t)

	s, err := m.Start("acct-1", hero, slimeTemplate())
	require.NoError(t, err)
	assert.Same(t, hero, s.Player, "session holds the live character")
	assert.Equal(t, 20, s.Monster.CurrentHP)
	assert.Equal(t, combat.StateActive, s.State)

	got, ok := m.Get("acct-1")
	require.True(t, ok)
	assert.Same(t, s, got)

	m.End("acct-1")
	_, ok = m.Get("acct-1")
	assert.False(t, ok)
}

func TestManager_StartRejectsSecondSession(t *testing.T) {
	m := combat.NewManager()
	first, err := m.Start("acct-1", newHero(t), slimeTemplate())
	require.NoError(t, err)

	_, err = m.Start("acct-1", newHero(t), slimeTemplate())
	require.Error(t, err)
	assert.True(t, errors.Is(err, gameerr.ErrSessionAlreadyActive))
	assert.Equal(t, gameerr.KindConflict, gameerr.KindOf(err))

	got, _ := m.Get("acct-1")
	assert.Same(t, first, got, "existing session is not overwritten")
}

func TestManager_EndIsIdempotent(t *testing.T) {
	m := combat.NewManager()
	assert.NotPanics(t, func() {
		m.End("nobody")
		m.End("nobody")
	})
	_, err := m.Start("acct-1", newHero(t), slimeTemplate())
	require.NoError(t, err)
	m.End("acct-1")
	m.End("acct-1")
	assert.Equal(t, 0, m.Len())
}

func TestManager_AtMostOneSessionPerAccountUnderContention(t *testing.T) {
	m := combat.NewManager()
	tmpl := slimeTemplate()
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.Start("acct-1", newHero(t), tmpl); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, m.Len())
}

func TestManager_Property_StartSucceedsIffNoSession(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		m := combat.NewManager()
		live := map[string]bool{}
		ops := rapid.SliceOfN(rapid.IntRange(0, 9), 1, 50).Draw(rt, "ops")
		for _, op := range ops {
			acct := fmt.Sprintf("acct-%d", op%3)
			if op < 6 {
				_, err := m.Start(acct, newHero(rt), slimeTemplate())
				if live[acct] {
					assert.ErrorIs(rt, err, gameerr.ErrSessionAlreadyActive)
				} else {
					assert.NoError(rt, err)
					live[acct] = true
				}
			} else {
				m.End(acct)
				delete(live, acct)
			}
			assert.Equal(rt, len(live), m.Len())
		}
	})
}

func TestSession_ViewClampsAndDetaches(t *testing.T) {
	m := combat.NewManager()
	s, err := m.Start("acct-1", newHero(t), slimeTemplate())
	require.NoError(t, err)
	s.Monster.CurrentHP = -4
	s.Player.Stats.HP = -2

	v := s.View()
	assert.Equal(t, 0, v.Monster.CurrentHP)
	assert.Equal(t, 0, v.Player.Stats.HP)
	assert.Equal(t, -2, s.Player.Stats.HP, "internal value is not clamped")

	v.Player.Name = "changed"
	assert.Equal(t, "Aria", s.Player.Name)
}
