// Package refdata provides the read-only reference data the game core
// queries by id: monster templates, item templates, recipes, and the map
// with its spawn areas.
package refdata

import "fmt"

// Drop is one entry of a monster's drop table.
type Drop struct {
	ItemID string  `yaml:"item_id" json:"itemId"`
	Chance float64 `yaml:"chance" json:"chance"`
}

// MonsterTemplate is the immutable definition of a monster.
type MonsterTemplate struct {
	ID      string `yaml:"id" json:"id"`
	Name    string `yaml:"name" json:"name"`
	Level   int    `yaml:"level" json:"level"`
	HP      int    `yaml:"hp" json:"hp"`
	Attack  int    `yaml:"attack" json:"attack"`
	Defense int    `yaml:"defense" json:"defense"`
	Drops   []Drop `yaml:"drops" json:"drops"`
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: m must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, Level >= 1,
// HP >= 1, Attack and Defense >= 0, and every drop has an item id and a
// chance in [0, 1].
func (m *MonsterTemplate) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("monster template: id must not be empty")
	}
	if m.Name == "" {
		return fmt.Errorf("monster template %q: name must not be empty", m.ID)
	}
	if m.Level < 1 {
		return fmt.Errorf("monster template %q: level must be >= 1", m.ID)
	}
	if m.HP < 1 {
		return fmt.Errorf("monster template %q: hp must be >= 1", m.ID)
	}
	if m.Attack < 0 || m.Defense < 0 {
		return fmt.Errorf("monster template %q: attack and defense must be >= 0", m.ID)
	}
	for i, d := range m.Drops {
		if d.ItemID == "" {
			return fmt.Errorf("monster template %q: drop[%d] must have a non-empty item_id", m.ID, i)
		}
		if d.Chance < 0 || d.Chance > 1 {
			return fmt.Errorf("monster template %q: drop[%d] chance must be in [0, 1], got %f", m.ID, i, d.Chance)
		}
	}
	return nil
}
