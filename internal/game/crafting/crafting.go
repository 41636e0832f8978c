// Package crafting turns recipe ingredients into result items.
package crafting

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/wisperwind/internal/game/inventory"
	"github.com/cory-johannsen/wisperwind/internal/game/refdata"
	"github.com/cory-johannsen/wisperwind/internal/gameerr"
)

// ItemCatalog looks up item templates for crafted results.
type ItemCatalog interface {
	Item(id string) (*refdata.ItemTemplate, bool)
}

// Outcome lists what a successful craft consumed and produced.
type Outcome struct {
	Consumed []inventory.Item `json:"consumed"`
	Produced []inventory.Item `json:"produced"`
}

// Craft applies recipe to inv.
//
// Precondition: inv, recipe, and items must be non-nil.
// Postcondition: On success every required ingredient unit has been removed
// from inv and exactly recipe.Result.Quantity result units were appended.
// On error inv is unchanged; missing ingredients yield an error matching
// gameerr.ErrInsufficientIngredients.
func Craft(inv *inventory.Inventory, recipe *refdata.Recipe, items ItemCatalog) (*Outcome, error) {
	result, ok := items.Item(recipe.Result.ItemID)
	if !ok {
		return nil, fmt.Errorf("recipe %q yields unknown item %q: %w", recipe.ID, recipe.Result.ItemID, gameerr.ErrItemNotFound)
	}
	need := recipe.Requirements()
	ids := make([]string, 0, len(need))
	for id := range need {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if inv.Count(id) < need[id] {
			return nil, fmt.Errorf("recipe %q needs %d of %q: %w", recipe.ID, need[id], id, gameerr.ErrInsufficientIngredients)
		}
	}

	work := inv.Clone()
	out := &Outcome{}
	for _, id := range ids {
		removed, err := work.RemoveByID(id, need[id])
		if err != nil {
			return nil, fmt.Errorf("recipe %q: %w", recipe.ID, gameerr.ErrInsufficientIngredients)
		}
		out.Consumed = append(out.Consumed, removed...)
	}
	for i := 0; i < recipe.Result.Quantity; i++ {
		it := result.NewInstance()
		work.Add(it)
		out.Produced = append(out.Produced, it)
	}
	*inv = work
	return out, nil
}
