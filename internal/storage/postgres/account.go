package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/wisperwind/internal/gameerr"
	"github.com/cory-johannsen/wisperwind/internal/storage"
)

// AccountRepository provides account persistence operations.
type AccountRepository struct {
	db *pgxpool.Pool
}

// NewAccountRepository creates an AccountRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

// CreateAccount inserts a new account with an already-hashed password.
//
// Precondition: username and passwordHash must be non-empty.
// Postcondition: Returns the created Account with ID and CreatedAt set,
// or an error matching gameerr.ErrAccountExists if the username is taken.
func (r *AccountRepository) CreateAccount(ctx context.Context, username, passwordHash string) (storage.Account, error) {
	var acct storage.Account
	err := r.db.QueryRow(ctx,
		`INSERT INTO accounts (id, username, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, username, password_hash, created_at`,
		storage.NewAccountID(), username, passwordHash,
	).Scan(&acct.ID, &acct.Username, &acct.PasswordHash, &acct.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.Account{}, fmt.Errorf("username %q: %w", username, gameerr.ErrAccountExists)
		}
		return storage.Account{}, gameerr.Persistence(fmt.Errorf("inserting account: %w", err))
	}
	return acct, nil
}

// AccountByUsername retrieves an account by username.
//
// Precondition: username must be non-empty.
// Postcondition: Returns the Account or an error matching gameerr.ErrAccountNotFound.
func (r *AccountRepository) AccountByUsername(ctx context.Context, username string) (storage.Account, error) {
	return r.queryOne(ctx,
		`SELECT id, username, password_hash, created_at FROM accounts WHERE username = $1`,
		username)
}

// AccountByID retrieves an account by id.
//
// Postcondition: Returns the Account or an error matching gameerr.ErrAccountNotFound.
func (r *AccountRepository) AccountByID(ctx context.Context, id string) (storage.Account, error) {
	return r.queryOne(ctx,
		`SELECT id, username, password_hash, created_at FROM accounts WHERE id = $1`,
		id)
}

func (r *AccountRepository) queryOne(ctx context.Context, sql string, arg string) (storage.Account, error) {
	var acct storage.Account
	err := r.db.QueryRow(ctx, sql, arg).
		Scan(&acct.ID, &acct.Username, &acct.PasswordHash, &acct.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.Account{}, fmt.Errorf("account %q: %w", arg, gameerr.ErrAccountNotFound)
		}
		return storage.Account{}, gameerr.Persistence(fmt.Errorf("querying account: %w", err))
	}
	return acct, nil
}
