// Package inventory provides carried items, the one-entry-per-unit inventory,
// and the five-slot equipment set.
package inventory

import "github.com/google/uuid"

// Item is one unit of an item carried or worn by a character: a copy of the
// item template plus an instance id unique within the owning character.
type Item struct {
	InstanceID  string `json:"instanceId"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	Kind        string `json:"kind,omitempty"`
	Slot        Slot   `json:"slot,omitempty"`
	Description string `json:"description,omitempty"`
}

// NewInstanceID returns a fresh item instance id.
func NewInstanceID() string {
	return uuid.New().String()
}

// Equippable reports whether the item names a valid equipment slot.
func (i Item) Equippable() bool {
	return i.Slot.Valid()
}
