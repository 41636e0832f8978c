// Package character defines the character domain model and pure creation logic.
package character

import (
	"fmt"

	"github.com/cory-johannsen/wisperwind/internal/game/inventory"
)

// Job is the character's class.
type Job string

// The five playable jobs.
const (
	JobKnight Job = "Knight"
	JobMage   Job = "Mage"
	JobTanker Job = "Tanker"
	JobHealer Job = "Healer"
	JobFarmer Job = "Farmer"
)

// Jobs lists every playable job in display order.
var Jobs = []Job{JobKnight, JobMage, JobTanker, JobHealer, JobFarmer}

// ParseJob returns the Job named s.
//
// Postcondition: Returns an error iff s is not one of Jobs.
func ParseJob(s string) (Job, error) {
	for _, j := range Jobs {
		if string(j) == s {
			return j, nil
		}
	}
	return "", fmt.Errorf("unknown job %q", s)
}

// Stats holds a character's combat and utility attributes.
//
// HP and MP may go below zero while a fight is in progress; Clamped returns
// the display form.
type Stats struct {
	HP       int `json:"hp"`
	MP       int `json:"mp"`
	Attack   int `json:"attack"`
	Defense  int `json:"defense"`
	Magic    int `json:"magic"`
	Spirit   int `json:"spirit"`
	Luck     int `json:"luck"`
	Vitality int `json:"vitality"`
}

// Clamped returns s with HP and MP floored at zero.
func (s Stats) Clamped() Stats {
	if s.HP < 0 {
		s.HP = 0
	}
	if s.MP < 0 {
		s.MP = 0
	}
	return s
}

// Position is a tile coordinate on the shared map.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Distance returns the Manhattan distance between p and q.
//
// Postcondition: Returns >= 0; Distance(p, q) == Distance(q, p).
func (p Position) Distance(q Position) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Character represents a player character's persistent state.
type Character struct {
	Name      string              `json:"name"`
	Job       Job                 `json:"job"`
	Level     int                 `json:"level"`
	XP        int                 `json:"xp"`
	Stats     Stats               `json:"stats"`
	Position  Position            `json:"position"`
	Inventory inventory.Inventory `json:"inventory"`
	Equipment inventory.Equipment `json:"equipment"`
}

// Clone returns a deep copy of c.
//
// Postcondition: mutating the result never affects c.
func (c *Character) Clone() *Character {
	if c == nil {
		return nil
	}
	out := *c
	out.Inventory = c.Inventory.Clone()
	out.Equipment = c.Equipment.Clone()
	return &out
}

// View returns a deep copy of c with HP and MP clamped for display.
func (c *Character) View() *Character {
	out := c.Clone()
	if out != nil {
		out.Stats = out.Stats.Clamped()
	}
	return out
}

// GainXP adds amount to the character's experience.
//
// Precondition: amount >= 0.
// Postcondition: XP never decreases.
func (c *Character) GainXP(amount int) {
	if amount > 0 {
		c.XP += amount
	}
}

// Revive restores a fallen character: HP returns to the job's base value and
// the character is moved to start. XP, inventory, and equipment are kept.
func (c *Character) Revive(start Position) {
	c.Stats.HP = BaseStats(c.Job).HP
	c.Position = start
}
