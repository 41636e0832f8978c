package gameserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/wisperwind/internal/game/character"
	"github.com/cory-johannsen/wisperwind/internal/game/combat"
	"github.com/cory-johannsen/wisperwind/internal/game/crafting"
	"github.com/cory-johannsen/wisperwind/internal/game/encounter"
	"github.com/cory-johannsen/wisperwind/internal/game/inventory"
	"github.com/cory-johannsen/wisperwind/internal/gameerr"
)

// MoveResult is the reply to a successful move.
type MoveResult struct {
	Message  string             `json:"message"`
	Position character.Position `json:"position"`
	// Combat is set when the move started an encounter, or when a fight
	// was already in progress.
	Combat *combat.View `json:"combat"`
}

// CraftResult is the reply to a successful craft.
type CraftResult struct {
	Message       string               `json:"message"`
	Consumed      []inventory.Item     `json:"consumed"`
	Produced      []inventory.Item     `json:"produced"`
	UpdatedPlayer *character.Character `json:"updatedPlayer"`
}

// CreateCharacter builds and stores the account's character.
//
// Postcondition: Returns the new character's view, or an error matching
// gameerr.ErrMalformedRequest, gameerr.ErrUnknownJob, or
// gameerr.ErrCharacterExists.
func (s *Service) CreateCharacter(ctx context.Context, accountID, name, job string) (*character.Character, error) {
	name = strings.TrimSpace(name)
	if name == "" || job == "" {
		return nil, gameerr.ErrMalformedRequest.WithMessage("Name and job are required.")
	}
	j, err := character.ParseJob(job)
	if err != nil {
		return nil, gameerr.ErrUnknownJob.WithMessage("Unknown job %q.", job)
	}
	c, err := character.Build(name, j, s.opts.Start)
	if err != nil {
		return nil, gameerr.ErrMalformedRequest.WithMessage("%s", err.Error())
	}

	unlock := s.locks.lock(accountID)
	defer unlock()

	if err := s.chars.CreateCharacter(ctx, accountID, c); err != nil {
		return nil, gameerr.Persistence(err)
	}
	s.logger.Info("character created",
		zap.String("account_id", accountID),
		zap.String("name", c.Name),
		zap.String("job", string(c.Job)),
	)
	return c.View(), nil
}

// HasCharacter reports whether the account has created a character.
func (s *Service) HasCharacter(ctx context.Context, accountID string) (bool, error) {
	unlock := s.locks.lock(accountID)
	defer unlock()
	if _, ok := s.sessions.Get(accountID); ok {
		return true, nil
	}
	_, err := s.chars.LoadCharacter(ctx, accountID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, gameerr.ErrCharacterNotFound):
		return false, nil
	default:
		return false, gameerr.Persistence(err)
	}
}

// PlayerData returns the account's character for display. During a fight
// this is the live session character.
func (s *Service) PlayerData(ctx context.Context, accountID string) (*character.Character, error) {
	unlock := s.locks.lock(accountID)
	defer unlock()

	if _, err := s.settle(ctx, accountID); err != nil {
		return nil, err
	}
	c, _, err := s.current(ctx, accountID)
	if err != nil {
		return nil, gameerr.Persistence(err)
	}
	return c.View(), nil
}

// Move steps the account's character to (x, y) and rolls for an encounter.
//
// Precondition: the destination must be exactly one orthogonal step away
// and on the map.
// Postcondition: On error nothing is stored or changed. On success the new
// position is stored before the encounter roll; a fired encounter starts a
// session holding the stored character.
func (s *Service) Move(ctx context.Context, accountID string, x, y int) (*MoveResult, error) {
	unlock := s.locks.lock(accountID)
	defer unlock()

	if _, err := s.settle(ctx, accountID); err != nil {
		return nil, err
	}
	c, sess, err := s.current(ctx, accountID)
	if err != nil {
		return nil, gameerr.Persistence(err)
	}

	dest := character.Position{X: x, Y: y}
	if c.Position.Distance(dest) != 1 {
		return nil, fmt.Errorf("move (%d,%d)->(%d,%d): %w", c.Position.X, c.Position.Y, x, y, gameerr.ErrInvalidMove)
	}
	if !s.ref.Map().InBounds(dest) {
		return nil, fmt.Errorf("move to (%d,%d): %w", x, y, gameerr.ErrOutOfBounds)
	}

	updated := c.Clone()
	updated.Position = dest
	var live *character.Character
	if sess != nil {
		live = sess.Player
	}
	if err := s.commit(ctx, accountID, live, updated); err != nil {
		return nil, err
	}

	res := &MoveResult{Message: "Move successful.", Position: dest}
	enc, ok := encounter.Resolve(dest, s.ref.Map(), sess != nil, s.dice)
	if !ok {
		if sess != nil {
			res.Combat = sess.View()
		}
		return res, nil
	}
	tmpl, ok := s.ref.Monster(enc.MonsterID)
	if !ok {
		s.logger.Error("spawn area names unknown monster",
			zap.String("area", enc.Area),
			zap.String("monster_id", enc.MonsterID),
		)
		return res, nil
	}
	started, err := s.sessions.Start(accountID, updated, tmpl)
	if err != nil {
		return nil, err
	}
	s.logger.Info("encounter started",
		zap.String("account_id", accountID),
		zap.String("area", enc.Area),
		zap.String("monster_id", tmpl.ID),
		zap.Int("x", dest.X),
		zap.Int("y", dest.Y),
	)
	res.Combat = started.View()
	return res, nil
}

// Craft applies recipeID to the account's inventory.
//
// Postcondition: On success the whole exchange is stored. On error the
// inventory is unchanged; missing recipes yield gameerr.ErrRecipeNotFound
// and short ingredients gameerr.ErrInsufficientIngredients.
func (s *Service) Craft(ctx context.Context, accountID, recipeID string) (*CraftResult, error) {
	recipe, ok := s.ref.Recipe(recipeID)
	if !ok {
		return nil, fmt.Errorf("recipe %q: %w", recipeID, gameerr.ErrRecipeNotFound)
	}

	unlock := s.locks.lock(accountID)
	defer unlock()

	if _, err := s.settle(ctx, accountID); err != nil {
		return nil, err
	}
	c, sess, err := s.current(ctx, accountID)
	if err != nil {
		return nil, gameerr.Persistence(err)
	}

	updated := c.Clone()
	out, err := crafting.Craft(&updated.Inventory, recipe, s.ref)
	if err != nil {
		return nil, err
	}
	var live *character.Character
	if sess != nil {
		live = sess.Player
	}
	if err := s.commit(ctx, accountID, live, updated); err != nil {
		return nil, err
	}
	s.logger.Info("item crafted",
		zap.String("account_id", accountID),
		zap.String("recipe_id", recipe.ID),
		zap.Int("consumed", len(out.Consumed)),
		zap.Int("produced", len(out.Produced)),
	)
	name := recipe.Result.ItemID
	if len(out.Produced) > 0 {
		name = out.Produced[0].Name
	}
	return &CraftResult{
		Message:       fmt.Sprintf("Successfully crafted %s!", name),
		Consumed:      out.Consumed,
		Produced:      out.Produced,
		UpdatedPlayer: updated.View(),
	}, nil
}

// Equip moves the inventory unit instanceID into its slot. A previous
// occupant returns to the inventory.
//
// Postcondition: Fails with gameerr.ErrInCombat during a fight,
// gameerr.ErrItemNotFound for an unknown unit, and gameerr.ErrNotEquippable
// for an item without a slot.
func (s *Service) Equip(ctx context.Context, accountID, instanceID string) (*character.Character, error) {
	unlock := s.locks.lock(accountID)
	defer unlock()

	if _, err := s.settle(ctx, accountID); err != nil {
		return nil, err
	}
	if _, ok := s.sessions.Get(accountID); ok {
		return nil, gameerr.ErrInCombat
	}
	c, err := s.chars.LoadCharacter(ctx, accountID)
	if err != nil {
		return nil, gameerr.Persistence(err)
	}
	it, ok := c.Inventory.RemoveInstance(instanceID)
	if !ok {
		return nil, fmt.Errorf("item instance %q: %w", instanceID, gameerr.ErrItemNotFound)
	}
	if !it.Equippable() {
		return nil, fmt.Errorf("item %q: %w", it.ID, gameerr.ErrNotEquippable)
	}
	prev, err := c.Equipment.Set(it.Slot, &it)
	if err != nil {
		return nil, fmt.Errorf("item %q: %w", it.ID, gameerr.ErrNotEquippable)
	}
	if prev != nil {
		c.Inventory.Add(*prev)
	}
	if err := s.commit(ctx, accountID, nil, c); err != nil {
		return nil, err
	}
	return c.View(), nil
}

// Unequip returns the item in slot to the inventory. An empty slot is a no-op.
//
// Postcondition: Fails with gameerr.ErrInCombat during a fight and
// gameerr.ErrMalformedRequest for an unknown slot name.
func (s *Service) Unequip(ctx context.Context, accountID, slot string) (*character.Character, error) {
	sl, err := inventory.ParseSlot(slot)
	if err != nil {
		return nil, gameerr.ErrMalformedRequest.WithMessage("Unknown equipment slot %q.", slot)
	}

	unlock := s.locks.lock(accountID)
	defer unlock()

	if _, err := s.settle(ctx, accountID); err != nil {
		return nil, err
	}
	if _, ok := s.sessions.Get(accountID); ok {
		return nil, gameerr.ErrInCombat
	}
	c, err := s.chars.LoadCharacter(ctx, accountID)
	if err != nil {
		return nil, gameerr.Persistence(err)
	}
	it := c.Equipment.Get(sl)
	if it == nil {
		return c.View(), nil
	}
	if _, err := c.Equipment.Set(sl, nil); err != nil {
		return nil, gameerr.ErrMalformedRequest.WithMessage("Unknown equipment slot %q.", slot)
	}
	c.Inventory.Add(*it)
	if err := s.commit(ctx, accountID, nil, c); err != nil {
		return nil, err
	}
	return c.View(), nil
}
