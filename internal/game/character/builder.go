package character

import (
	"errors"

	"github.com/cory-johannsen/wisperwind/internal/game/inventory"
)

// baseStats are the starting attributes shared by every job.
var baseStats = Stats{HP: 100, MP: 50, Attack: 10, Defense: 5, Magic: 5, Spirit: 5, Luck: 5, Vitality: 5}

// BaseStats returns the starting attributes for job: the shared base with
// the job's modifiers applied.
//
// Postcondition: HP and MP equal the shared base for every job.
func BaseStats(job Job) Stats {
	s := baseStats
	switch job {
	case JobKnight:
		s.Attack += 2
		s.Defense++
	case JobMage:
		s.Magic += 3
	case JobTanker:
		s.Defense += 3
	case JobHealer:
		s.Magic++
		s.Spirit += 2
	case JobFarmer:
		s.Luck++
		s.Vitality++
	}
	return s
}

// Build constructs a new level-1 Character at start.
//
// Precondition: name must be non-empty; job must be one of Jobs.
// Postcondition: Returns a Character ready for persistence, or a non-nil error.
func Build(name string, job Job, start Position) (*Character, error) {
	if name == "" {
		return nil, errors.New("character name must not be empty")
	}
	if _, err := ParseJob(string(job)); err != nil {
		return nil, err
	}
	return &Character{
		Name:      name,
		Job:       job,
		Level:     1,
		XP:        0,
		Stats:     BaseStats(job),
		Position:  start,
		Inventory: inventory.Inventory{},
		Equipment: inventory.Equipment{},
	}, nil
}
