package refdata

import "fmt"

// ItemQuantity pairs an item id with a unit count.
type ItemQuantity struct {
	ItemID   string `yaml:"item_id" json:"itemId"`
	Quantity int    `yaml:"quantity" json:"quantity"`
}

// Recipe turns a set of ingredients into a result.
type Recipe struct {
	ID          string         `yaml:"id" json:"id"`
	Name        string         `yaml:"name" json:"name,omitempty"`
	Ingredients []ItemQuantity `yaml:"ingredients" json:"ingredients"`
	Result      ItemQuantity   `yaml:"result" json:"result"`
}

// Validate checks that the recipe satisfies basic invariants.
//
// Postcondition: Returns nil iff ID is non-empty, there is at least one
// ingredient, and every quantity is >= 1.
func (r *Recipe) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("recipe: id must not be empty")
	}
	if len(r.Ingredients) == 0 {
		return fmt.Errorf("recipe %q: must have at least one ingredient", r.ID)
	}
	for i, ing := range r.Ingredients {
		if ing.ItemID == "" {
			return fmt.Errorf("recipe %q: ingredient[%d] must have a non-empty item_id", r.ID, i)
		}
		if ing.Quantity < 1 {
			return fmt.Errorf("recipe %q: ingredient[%d] quantity must be >= 1", r.ID, i)
		}
	}
	if r.Result.ItemID == "" {
		return fmt.Errorf("recipe %q: result must have a non-empty item_id", r.ID)
	}
	if r.Result.Quantity < 1 {
		return fmt.Errorf("recipe %q: result quantity must be >= 1", r.ID)
	}
	return nil
}

// Requirements returns the total quantity needed per item id, merging
// ingredients that name the same item.
func (r *Recipe) Requirements() map[string]int {
	need := make(map[string]int, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		need[ing.ItemID] += ing.Quantity
	}
	return need
}
