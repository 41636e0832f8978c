package refdata

import (
	"fmt"

	"github.com/cory-johannsen/wisperwind/internal/game/inventory"
)

// ItemTemplate is the immutable definition of an item.
type ItemTemplate struct {
	ID          string         `yaml:"id" json:"id"`
	Name        string         `yaml:"name" json:"name"`
	Kind        string         `yaml:"kind" json:"kind,omitempty"`
	Slot        inventory.Slot `yaml:"slot" json:"slot,omitempty"`
	Description string         `yaml:"description" json:"description,omitempty"`
}

// Validate checks that the template satisfies basic invariants.
//
// Postcondition: Returns nil iff ID and Name are non-empty and Slot is empty
// or one of inventory.Slots.
func (t *ItemTemplate) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("item template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("item template %q: name must not be empty", t.ID)
	}
	if t.Slot != "" && !t.Slot.Valid() {
		return fmt.Errorf("item template %q: unknown slot %q", t.ID, t.Slot)
	}
	return nil
}

// NewInstance returns a fresh inventory unit copied from t.
//
// Postcondition: the result carries a new, non-empty instance id.
func (t *ItemTemplate) NewInstance() inventory.Item {
	return inventory.Item{
		InstanceID:  inventory.NewInstanceID(),
		ID:          t.ID,
		Name:        t.Name,
		Kind:        t.Kind,
		Slot:        t.Slot,
		Description: t.Description,
	}
}
