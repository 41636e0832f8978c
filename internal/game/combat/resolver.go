package combat

import (
	"fmt"

	"github.com/cory-johannsen/wisperwind/internal/game/dice"
	"github.com/cory-johannsen/wisperwind/internal/game/inventory"
	"github.com/cory-johannsen/wisperwind/internal/game/refdata"
	"github.com/cory-johannsen/wisperwind/internal/gameerr"
)

// CritChance is the probability that a player's attack is a critical hit.
const CritChance = 0.1

// XPPerLevel is the experience granted per monster level on victory.
const XPPerLevel = 10

// Action is a player's combat command.
type Action string

// ActionAttack is the only defined combat action.
const ActionAttack Action = "attack"

// ParseAction returns the Action named s.
//
// Postcondition: Returns an error matching gameerr.ErrUnknownAction iff s is not a defined action.
func ParseAction(s string) (Action, error) {
	if Action(s) == ActionAttack {
		return ActionAttack, nil
	}
	return "", gameerr.ErrUnknownAction.WithMessage("Unknown action %q.", s)
}

// Outcome classifies how a round ended.
type Outcome int

const (
	// OutcomeContinue means both sides are still standing.
	OutcomeContinue Outcome = iota
	// OutcomeVictory means the monster fell.
	OutcomeVictory
	// OutcomeDefeat means the player fell to the counter-attack.
	OutcomeDefeat
)

func (o Outcome) String() string {
	switch o {
	case OutcomeContinue:
		return "continue"
	case OutcomeVictory:
		return "victory"
	case OutcomeDefeat:
		return "defeat"
	default:
		return "unknown"
	}
}

// Rewards is what a victory granted.
type Rewards struct {
	XP    int              `json:"xp"`
	Items []inventory.Item `json:"items"`
}

// Result describes one resolved round.
type Result struct {
	Log []string
	// PlayerDamage is the damage dealt to the monster, after any critical doubling.
	PlayerDamage int
	Critical     bool
	// MonsterDamage is the counter-attack damage; zero when the monster fell first.
	MonsterDamage int
	Outcome       Outcome
	// Rewards is non-nil only on victory.
	Rewards *Rewards
}

// ItemCatalog looks up item templates for drops.
// *refdata.Store satisfies ItemCatalog.
type ItemCatalog interface {
	Item(id string) (*refdata.ItemTemplate, bool)
}

// Damage returns attack minus defense, floored at 1.
//
// Postcondition: Returns >= 1.
func Damage(attack, defense int) int {
	return max(1, attack-defense)
}

// ResolveAction resolves one round of action in s, mutating s in place.
//
// Draw order is fixed: one Float64 for the critical check, then, only on
// victory, one Float64 per drop-table entry in table order.
//
// Precondition: s, src, and items must be non-nil.
// Postcondition: On error s is unchanged. On OutcomeVictory s.State is
// StateResolved and Rewards are already applied to s.Player. On
// OutcomeDefeat s.State is StateDefeated. Otherwise s.State is StateActive.
func ResolveAction(s *Session, action Action, src dice.Source, items ItemCatalog) (*Result, error) {
	if action != ActionAttack {
		return nil, gameerr.ErrUnknownAction.WithMessage("Unknown action %q.", string(action))
	}
	if s.State != StateActive {
		return nil, fmt.Errorf("session for account %q is %s: %w", s.AccountID, s.State, gameerr.ErrNoActiveCombat)
	}

	player := s.Player
	monster := s.Monster
	name := monster.Template.Name
	res := &Result{}

	dmg := Damage(player.Stats.Attack, monster.Template.Defense)
	if dice.Chance(src, CritChance) {
		dmg *= 2
		res.Critical = true
		res.Log = append(res.Log, fmt.Sprintf("Critical hit! You attack %s for %d damage.", name, dmg))
	} else {
		res.Log = append(res.Log, fmt.Sprintf("You attack %s for %d damage.", name, dmg))
	}
	res.PlayerDamage = dmg
	monster.CurrentHP -= dmg

	if !monster.IsDead() {
		counter := Damage(monster.Template.Attack, player.Stats.Defense)
		player.Stats.HP -= counter
		res.MonsterDamage = counter
		res.Log = append(res.Log, fmt.Sprintf("%s attacks you for %d damage.", name, counter))
		if player.Stats.HP <= 0 {
			res.Outcome = OutcomeDefeat
			s.State = StateDefeated
			res.Log = append(res.Log, fmt.Sprintf("\nYou were defeated by %s.", name))
		}
		return res, nil
	}

	res.Log = append(res.Log, fmt.Sprintf("\n%s is defeated!", name))
	rewards := &Rewards{XP: monster.Template.Level * XPPerLevel, Items: []inventory.Item{}}
	player.GainXP(rewards.XP)
	res.Log = append(res.Log, fmt.Sprintf("You gained %d XP.", rewards.XP))
	for _, drop := range monster.Template.Drops {
		if !dice.Chance(src, drop.Chance) {
			continue
		}
		tmpl, ok := items.Item(drop.ItemID)
		if !ok {
			continue
		}
		it := tmpl.NewInstance()
		player.Inventory.Add(it)
		rewards.Items = append(rewards.Items, it)
		res.Log = append(res.Log, fmt.Sprintf("You obtained: %s!", it.Name))
	}
	res.Rewards = rewards
	res.Outcome = OutcomeVictory
	s.State = StateResolved
	return res, nil
}
