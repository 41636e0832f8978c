package crafting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/wisperwind/internal/game/crafting"
	"github.com/cory-johannsen/wisperwind/internal/game/inventory"
	"github.com/cory-johannsen/wisperwind/internal/game/refdata"
	"github.com/cory-johannsen/wisperwind/internal/gameerr"
)

type catalog map[string]*refdata.ItemTemplate

func (c catalog) Item(id string) (*refdata.ItemTemplate, bool) {
	it, ok := c[id]
	return it, ok
}

var items = catalog{
	"gel":   {ID: "gel", Name: "Slime Gel"},
	"herb":  {ID: "herb", Name: "Herb"},
	"tonic": {ID: "tonic", Name: "Healing Tonic"},
}

var tonic = &refdata.Recipe{
	ID: "tonic",
	Ingredients: []refdata.ItemQuantity{
		{ItemID: "gel", Quantity: 2},
		{ItemID: "herb", Quantity: 1},
	},
	Result: refdata.ItemQuantity{ItemID: "tonic", Quantity: 2},
}

func units(ids ...string) inventory.Inventory {
	inv := inventory.Inventory{}
	for _, id := range ids {
		inv.Add(inventory.Item{ID: id, Name: id})
	}
	return inv
}

func TestCraft_ConsumesAndProduces(t *testing.T) {
	inv := units("gel", "herb", "gel", "gel")
	out, err := crafting.Craft(&inv, tonic, items)
	require.NoError(t, err)

	assert.Len(t, out.Consumed, 3)
	assert.Len(t, out.Produced, 2)
	assert.Equal(t, 1, inv.Count("gel"))
	assert.Equal(t, 0, inv.Count("herb"))
	assert.Equal(t, 2, inv.Count("tonic"))
	assert.Len(t, inv, 3)
}

func TestCraft_InsufficientLeavesInventoryUnchanged(t *testing.T) {
	inv := units("gel", "herb")
	before := inv.Clone()
	_, err := crafting.Craft(&inv, tonic, items)
	require.Error(t, err)
	assert.ErrorIs(t, err, gameerr.ErrInsufficientIngredients)
	assert.Equal(t, "Not enough ingredients.", gameerr.MessageOf(err))
	assert.Equal(t, before, inv)
}

func TestCraft_UnknownResultItem(t *testing.T) {
	inv := units("gel", "gel", "herb")
	r := *tonic
	r.Result = refdata.ItemQuantity{ItemID: "elixir", Quantity: 1}
	_, err := crafting.Craft(&inv, &r, items)
	assert.ErrorIs(t, err, gameerr.ErrItemNotFound)
	assert.Len(t, inv, 3)
}

func TestCraft_DuplicateIngredientEntriesAreSummed(t *testing.T) {
	r := &refdata.Recipe{
		ID: "double",
		Ingredients: []refdata.ItemQuantity{
			{ItemID: "gel", Quantity: 1},
			{ItemID: "gel", Quantity: 1},
		},
		Result: refdata.ItemQuantity{ItemID: "tonic", Quantity: 1},
	}
	inv := units("gel")
	_, err := crafting.Craft(&inv, r, items)
	assert.ErrorIs(t, err, gameerr.ErrInsufficientIngredients)
	assert.Equal(t, 1, inv.Count("gel"))
}

func TestCraft_Property_Atomic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		gels := rapid.IntRange(0, 5).Draw(rt, "gels")
		herbs := rapid.IntRange(0, 3).Draw(rt, "herbs")
		var ids []string
		for i := 0; i < gels; i++ {
			ids = append(ids, "gel")
		}
		for i := 0; i < herbs; i++ {
			ids = append(ids, "herb")
		}
		inv := units(ids...)
		before := inv.Clone()

		_, err := crafting.Craft(&inv, tonic, items)
		if gels >= 2 && herbs >= 1 {
			require.NoError(rt, err)
			assert.Equal(rt, gels-2, inv.Count("gel"))
			assert.Equal(rt, herbs-1, inv.Count("herb"))
			assert.Equal(rt, 2, inv.Count("tonic"))
		} else {
			assert.ErrorIs(rt, err, gameerr.ErrInsufficientIngredients)
			assert.Equal(rt, before, inv)
		}
	})
}
