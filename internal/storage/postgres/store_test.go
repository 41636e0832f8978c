package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/wisperwind/internal/game/character"
	"github.com/cory-johannsen/wisperwind/internal/game/inventory"
	"github.com/cory-johannsen/wisperwind/internal/gameerr"
	"github.com/cory-johannsen/wisperwind/internal/storage/postgres"
	"github.com/cory-johannsen/wisperwind/internal/testutil"
)

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

func setupRepos(t *testing.T) (*postgres.AccountRepository, *postgres.CharacterRepository) {
	t.Helper()
	pool := testutil.NewPool(t)
	return postgres.NewAccountRepository(pool), postgres.NewCharacterRepository(pool)
}

func TestAccountRepository_CreateAndLookup(t *testing.T) {
	accounts, _ := setupRepos(t)
	ctx := context.Background()

	name := uniqueName("user")
	acct, err := accounts.CreateAccount(ctx, name, "$2a$10$hash")
	require.NoError(t, err)
	assert.NotEmpty(t, acct.ID)
	assert.False(t, acct.CreatedAt.IsZero())

	byName, err := accounts.AccountByUsername(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, acct.ID, byName.ID)
	assert.Equal(t, "$2a$10$hash", byName.PasswordHash)

	byID, err := accounts.AccountByID(ctx, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, name, byID.Username)

	_, err = accounts.CreateAccount(ctx, name, "other")
	assert.ErrorIs(t, err, gameerr.ErrAccountExists)

	_, err = accounts.AccountByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, gameerr.ErrAccountNotFound)
}

func TestCharacterRepository_RoundTrip(t *testing.T) {
	accounts, chars := setupRepos(t)
	ctx := context.Background()

	acct, err := accounts.CreateAccount(ctx, uniqueName("user"), "hash")
	require.NoError(t, err)

	_, err = chars.LoadCharacter(ctx, acct.ID)
	assert.ErrorIs(t, err, gameerr.ErrCharacterNotFound)

	c, err := character.Build("Aria", character.JobKnight, character.Position{X: 10, Y: 10})
	require.NoError(t, err)
	require.NoError(t, chars.CreateCharacter(ctx, acct.ID, c))
	assert.ErrorIs(t, chars.CreateCharacter(ctx, acct.ID, c), gameerr.ErrCharacterExists)

	loaded, err := chars.LoadCharacter(ctx, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)

	sword := inventory.Item{InstanceID: "i-1", ID: "iron_sword", Name: "Iron Sword", Slot: inventory.SlotWeapon}
	loaded.XP = 40
	loaded.Stats.HP = 71
	loaded.Position = character.Position{X: 11, Y: 10}
	loaded.Inventory.Add(inventory.Item{InstanceID: "i-2", ID: "herb", Name: "Herb"})
	loaded.Equipment.Weapon = &sword
	require.NoError(t, chars.SaveCharacter(ctx, acct.ID, loaded))

	again, err := chars.LoadCharacter(ctx, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, loaded, again)
}

func TestCharacterRepository_SaveMissing(t *testing.T) {
	_, chars := setupRepos(t)
	c, err := character.Build("Aria", character.JobMage, character.Position{})
	require.NoError(t, err)
	err = chars.SaveCharacter(context.Background(), "00000000-0000-0000-0000-000000000000", c)
	assert.ErrorIs(t, err, gameerr.ErrCharacterNotFound)
}
