package inventory

import "fmt"

// Inventory is an ordered sequence of item units. Duplicates are allowed:
// three potions are three entries, never one entry with a quantity.
type Inventory []Item

// Clone returns an independent copy of inv.
func (inv Inventory) Clone() Inventory {
	if inv == nil {
		return Inventory{}
	}
	out := make(Inventory, len(inv))
	copy(out, inv)
	return out
}

// Count returns the number of units whose template id is itemID.
//
// Postcondition: Returns >= 0.
func (inv Inventory) Count(itemID string) int {
	n := 0
	for _, it := range inv {
		if it.ID == itemID {
			n++
		}
	}
	return n
}

// Add appends items in order. Items without an instance id receive one.
//
// Postcondition: len(inv) grows by len(items).
func (inv *Inventory) Add(items ...Item) {
	for _, it := range items {
		if it.InstanceID == "" {
			it.InstanceID = NewInstanceID()
		}
		*inv = append(*inv, it)
	}
}

// RemoveByID removes the first n units whose template id is itemID,
// scanning from the front.
//
// Precondition: n >= 0.
// Postcondition: On success exactly n units are removed and returned in
// removal order; on error the inventory is unchanged.
func (inv *Inventory) RemoveByID(itemID string, n int) ([]Item, error) {
	if n < 0 {
		return nil, fmt.Errorf("inventory: cannot remove %d units", n)
	}
	if have := inv.Count(itemID); have < n {
		return nil, fmt.Errorf("inventory: need %d of %q, have %d", n, itemID, have)
	}
	removed := make([]Item, 0, n)
	kept := make(Inventory, 0, len(*inv)-n)
	for _, it := range *inv {
		if it.ID == itemID && len(removed) < n {
			removed = append(removed, it)
			continue
		}
		kept = append(kept, it)
	}
	*inv = kept
	return removed, nil
}

// FindInstance returns the index of the unit with the given instance id.
//
// Postcondition: Returns (index, true) if found, or (-1, false) otherwise.
func (inv Inventory) FindInstance(instanceID string) (int, bool) {
	for i, it := range inv {
		if it.InstanceID == instanceID {
			return i, true
		}
	}
	return -1, false
}

// RemoveInstance removes and returns the unit with the given instance id.
//
// Postcondition: Returns (item, true) and shrinks the inventory by one if
// found; otherwise the inventory is unchanged.
func (inv *Inventory) RemoveInstance(instanceID string) (Item, bool) {
	idx, ok := inv.FindInstance(instanceID)
	if !ok {
		return Item{}, false
	}
	it := (*inv)[idx]
	*inv = append((*inv)[:idx:idx], (*inv)[idx+1:]...)
	return it, true
}
