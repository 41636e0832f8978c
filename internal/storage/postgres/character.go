package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/wisperwind/internal/game/character"
	"github.com/cory-johannsen/wisperwind/internal/gameerr"
)

// CharacterRepository persists one character per account. Scalar fields
// get their own columns; inventory and equipment are stored as JSONB.
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

const characterColumns = `name, job, level, xp, stats, pos_x, pos_y, inventory, equipment`

// CreateCharacter inserts the account's character.
//
// Precondition: accountID must reference an existing account; c must be non-nil.
// Postcondition: Returns nil, or an error matching gameerr.ErrCharacterExists
// if the account already has one.
func (r *CharacterRepository) CreateCharacter(ctx context.Context, accountID string, c *character.Character) error {
	args, err := characterArgs(c)
	if err != nil {
		return gameerr.Persistence(err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO characters (account_id, `+characterColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		append([]any{accountID}, args...)...,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("account %q: %w", accountID, gameerr.ErrCharacterExists)
		}
		return gameerr.Persistence(fmt.Errorf("inserting character: %w", err))
	}
	return nil
}

// LoadCharacter retrieves the account's character.
//
// Postcondition: Returns the Character or an error matching gameerr.ErrCharacterNotFound.
func (r *CharacterRepository) LoadCharacter(ctx context.Context, accountID string) (*character.Character, error) {
	var (
		c                 character.Character
		job               string
		stats, inv, equip []byte
	)
	err := r.db.QueryRow(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE account_id = $1`,
		accountID,
	).Scan(&c.Name, &job, &c.Level, &c.XP, &stats, &c.Position.X, &c.Position.Y, &inv, &equip)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("account %q: %w", accountID, gameerr.ErrCharacterNotFound)
		}
		return nil, gameerr.Persistence(fmt.Errorf("querying character: %w", err))
	}
	c.Job = character.Job(job)
	if err := json.Unmarshal(stats, &c.Stats); err != nil {
		return nil, gameerr.Persistence(fmt.Errorf("decoding stats: %w", err))
	}
	if err := json.Unmarshal(inv, &c.Inventory); err != nil {
		return nil, gameerr.Persistence(fmt.Errorf("decoding inventory: %w", err))
	}
	if err := json.Unmarshal(equip, &c.Equipment); err != nil {
		return nil, gameerr.Persistence(fmt.Errorf("decoding equipment: %w", err))
	}
	if c.Inventory == nil {
		c.Inventory = c.Inventory.Clone()
	}
	return &c, nil
}

// SaveCharacter overwrites the account's character in one statement.
//
// Precondition: c must be non-nil.
// Postcondition: Returns nil on success, or an error matching
// gameerr.ErrCharacterNotFound if the account has no character row.
func (r *CharacterRepository) SaveCharacter(ctx context.Context, accountID string, c *character.Character) error {
	args, err := characterArgs(c)
	if err != nil {
		return gameerr.Persistence(err)
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE characters SET
			name = $2, job = $3, level = $4, xp = $5, stats = $6,
			pos_x = $7, pos_y = $8, inventory = $9, equipment = $10,
			updated_at = NOW()
		WHERE account_id = $1`,
		append([]any{accountID}, args...)...,
	)
	if err != nil {
		return gameerr.Persistence(fmt.Errorf("saving character: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %q: %w", accountID, gameerr.ErrCharacterNotFound)
	}
	return nil
}

func characterArgs(c *character.Character) ([]any, error) {
	stats, err := json.Marshal(c.Stats)
	if err != nil {
		return nil, fmt.Errorf("encoding stats: %w", err)
	}
	inv, err := json.Marshal(c.Inventory.Clone())
	if err != nil {
		return nil, fmt.Errorf("encoding inventory: %w", err)
	}
	equip, err := json.Marshal(c.Equipment)
	if err != nil {
		return nil, fmt.Errorf("encoding equipment: %w", err)
	}
	return []any{c.Name, string(c.Job), c.Level, c.XP, stats, c.Position.X, c.Position.Y, inv, equip}, nil
}
