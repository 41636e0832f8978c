// Package combat owns live one-on-one fights between a character and a
// monster: the per-account session registry and the round resolver.
package combat

import (
	"github.com/cory-johannsen/wisperwind/internal/game/character"
	"github.com/cory-johannsen/wisperwind/internal/game/refdata"
)

// State is the lifecycle position of a Session.
type State int

const (
	// StateActive is a fight in progress.
	StateActive State = iota
	// StateResolved means the monster fell and rewards were granted; the
	// session lingers only until the character is persisted.
	StateResolved
	// StateDefeated means the character fell; the session lingers only until
	// the revived character is persisted.
	StateDefeated
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateResolved:
		return "resolved"
	case StateDefeated:
		return "defeated"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further actions may be taken in this state.
func (s State) Terminal() bool {
	return s == StateResolved || s == StateDefeated
}

// MonsterInstance is a per-fight copy of a MonsterTemplate with mutable hit points.
type MonsterInstance struct {
	Template  *refdata.MonsterTemplate
	CurrentHP int
}

// NewMonsterInstance spawns a fresh instance at full health.
//
// Precondition: tmpl must not be nil.
func NewMonsterInstance(tmpl *refdata.MonsterTemplate) *MonsterInstance {
	return &MonsterInstance{Template: tmpl, CurrentHP: tmpl.HP}
}

// IsDead reports whether the instance has been reduced to zero or below.
func (m *MonsterInstance) IsDead() bool {
	return m.CurrentHP <= 0
}

// Session is one account's fight. Player points at the account's live
// character: every round mutates it in place.
type Session struct {
	AccountID string
	Player    *character.Character
	Monster   *MonsterInstance
	State     State
}

// MonsterView is the display snapshot of a monster.
type MonsterView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Level     int    `json:"level"`
	HP        int    `json:"hp"`
	CurrentHP int    `json:"currentHp"`
	Attack    int    `json:"attack"`
	Defense   int    `json:"defense"`
}

// View is the serialized form of a Session returned to clients.
type View struct {
	Player  *character.Character `json:"player"`
	Monster MonsterView          `json:"monster"`
	State   string               `json:"state"`
}

// View returns a detached snapshot with hit points clamped at zero.
//
// Postcondition: mutating the result never affects s.
func (s *Session) View() *View {
	hp := s.Monster.CurrentHP
	if hp < 0 {
		hp = 0
	}
	t := s.Monster.Template
	return &View{
		Player: s.Player.View(),
		Monster: MonsterView{
			ID:        t.ID,
			Name:      t.Name,
			Level:     t.Level,
			HP:        t.HP,
			CurrentHP: hp,
			Attack:    t.Attack,
			Defense:   t.Defense,
		},
		State: s.State.String(),
	}
}
