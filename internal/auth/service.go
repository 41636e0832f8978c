package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/wisperwind/internal/gameerr"
	"github.com/cory-johannsen/wisperwind/internal/storage"
)

// AccountStore persists accounts.
type AccountStore interface {
	CreateAccount(ctx context.Context, username, passwordHash string) (storage.Account, error)
	AccountByUsername(ctx context.Context, username string) (storage.Account, error)
}

const (
	// maxPasswordBytes is bcrypt's input limit.
	maxPasswordBytes = 72
	// maxUsernameBytes matches the accounts.username column width.
	maxUsernameBytes = 64
)

// Service registers and authenticates accounts.
type Service struct {
	accounts AccountStore
	hasher   Hasher
	tokens   *Tokens
	logger   *zap.Logger
}

// NewService wires a Service.
//
// Precondition: all arguments must be non-nil.
func NewService(accounts AccountStore, hasher Hasher, tokens *Tokens, logger *zap.Logger) *Service {
	return &Service{accounts: accounts, hasher: hasher, tokens: tokens, logger: logger}
}

// Register creates an account with a hashed password.
//
// Postcondition: Returns the new Account, or an error matching
// gameerr.ErrMalformedRequest for empty or oversized fields or
// gameerr.ErrAccountExists for a taken username.
func (s *Service) Register(ctx context.Context, username, password string) (storage.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return storage.Account{}, gameerr.ErrMalformedRequest.WithMessage("Username and password are required.")
	}
	if len(username) > maxUsernameBytes {
		return storage.Account{}, gameerr.ErrMalformedRequest.WithMessage("Username must be at most %d bytes.", maxUsernameBytes)
	}
	if len(password) > maxPasswordBytes {
		return storage.Account{}, gameerr.ErrMalformedRequest.WithMessage("Password must be at most %d bytes.", maxPasswordBytes)
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return storage.Account{}, gameerr.Persistence(err)
	}
	acct, err := s.accounts.CreateAccount(ctx, username, hash)
	if err != nil {
		return storage.Account{}, err
	}
	s.logger.Info("account registered",
		zap.String("account_id", acct.ID),
		zap.String("username", acct.Username),
	)
	return acct, nil
}

// Login verifies credentials and issues a token.
//
// Postcondition: Returns (token, account) on success. Unknown usernames and
// wrong passwords both yield an error matching gameerr.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (string, storage.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", storage.Account{}, gameerr.ErrMalformedRequest.WithMessage("Username and password are required.")
	}
	acct, err := s.accounts.AccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gameerr.ErrAccountNotFound) {
			return "", storage.Account{}, fmt.Errorf("login %q: %w", username, gameerr.ErrInvalidCredentials)
		}
		return "", storage.Account{}, err
	}
	if !s.hasher.Check(password, acct.PasswordHash) {
		s.logger.Warn("login rejected", zap.String("username", username))
		return "", storage.Account{}, fmt.Errorf("login %q: %w", username, gameerr.ErrInvalidCredentials)
	}
	token, err := s.tokens.Issue(acct.ID)
	if err != nil {
		return "", storage.Account{}, gameerr.Persistence(err)
	}
	s.logger.Info("login succeeded", zap.String("account_id", acct.ID))
	return token, acct, nil
}
