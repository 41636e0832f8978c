package inventory

import "fmt"

// Slot identifies an equipment slot.
type Slot string

const (
	SlotWeapon    Slot = "weapon"
	SlotShield    Slot = "shield"
	SlotHelmet    Slot = "helmet"
	SlotArmor     Slot = "armor"
	SlotAccessory Slot = "accessory"
)

// Slots lists every equipment slot in display order.
var Slots = []Slot{SlotWeapon, SlotShield, SlotHelmet, SlotArmor, SlotAccessory}

// Valid reports whether s is one of Slots.
func (s Slot) Valid() bool {
	for _, v := range Slots {
		if s == v {
			return true
		}
	}
	return false
}

// ParseSlot returns the Slot named s.
//
// Postcondition: Returns an error iff s is not one of Slots.
func ParseSlot(s string) (Slot, error) {
	if Slot(s).Valid() {
		return Slot(s), nil
	}
	return "", fmt.Errorf("unknown equipment slot %q", s)
}

// Equipment holds the five named slots. A nil slot is empty.
type Equipment struct {
	Weapon    *Item `json:"weapon"`
	Shield    *Item `json:"shield"`
	Helmet    *Item `json:"helmet"`
	Armor     *Item `json:"armor"`
	Accessory *Item `json:"accessory"`
}

func (e *Equipment) slotPtr(s Slot) **Item {
	switch s {
	case SlotWeapon:
		return &e.Weapon
	case SlotShield:
		return &e.Shield
	case SlotHelmet:
		return &e.Helmet
	case SlotArmor:
		return &e.Armor
	case SlotAccessory:
		return &e.Accessory
	default:
		return nil
	}
}

// Get returns the item in slot s, or nil when empty or s is invalid.
func (e *Equipment) Get(s Slot) *Item {
	p := e.slotPtr(s)
	if p == nil {
		return nil
	}
	return *p
}

// Set places it in slot s and returns the previous occupant.
//
// Precondition: s must be valid.
// Postcondition: Get(s) == it.
func (e *Equipment) Set(s Slot, it *Item) (*Item, error) {
	p := e.slotPtr(s)
	if p == nil {
		return nil, fmt.Errorf("unknown equipment slot %q", s)
	}
	prev := *p
	*p = it
	return prev, nil
}

// Clone returns a deep copy of e.
func (e Equipment) Clone() Equipment {
	out := Equipment{}
	for _, s := range Slots {
		if it := e.Get(s); it != nil {
			cp := *it
			_, _ = out.Set(s, &cp)
		}
	}
	return out
}
