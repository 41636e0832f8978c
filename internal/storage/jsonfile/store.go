// Package jsonfile provides a player store backed by a single JSON file
// holding every account and its character.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cory-johannsen/wisperwind/internal/game/character"
	"github.com/cory-johannsen/wisperwind/internal/gameerr"
	"github.com/cory-johannsen/wisperwind/internal/storage"
)

// record is one element of the players file.
type record struct {
	ID        string               `json:"id"`
	Username  string               `json:"username"`
	Password  string               `json:"password"`
	CreatedAt time.Time            `json:"createdAt"`
	Character *character.Character `json:"character,omitempty"`
}

// Store keeps the whole players file in memory and rewrites it after every
// mutation. Writes go to a temporary file that is renamed over the original,
// so a failed write leaves the previous contents intact.
// All methods are safe for concurrent use.
type Store struct {
	path    string
	mu      sync.RWMutex
	players []*record
}

// Open loads the players file at path, creating an empty one if absent.
//
// Precondition: the parent directory of path must be creatable.
// Postcondition: Returns a ready Store or a non-nil error.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating players directory: %w", err)
		}
		if err := s.flush(); err != nil {
			return nil, fmt.Errorf("creating players file: %w", err)
		}
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("reading players file: %w", err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.players); err != nil {
			return nil, fmt.Errorf("parsing players file %q: %w", path, err)
		}
	}
	return s, nil
}

// CreateAccount appends a new account.
//
// Postcondition: Returns the Account, or an error matching
// gameerr.ErrAccountExists if username is taken.
func (s *Store) CreateAccount(_ context.Context, username, passwordHash string) (storage.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.byUsername(username) != nil {
		return storage.Account{}, fmt.Errorf("username %q: %w", username, gameerr.ErrAccountExists)
	}
	rec := &record{
		ID:        storage.NewAccountID(),
		Username:  username,
		Password:  passwordHash,
		CreatedAt: time.Now().UTC(),
	}
	s.players = append(s.players, rec)
	if err := s.flush(); err != nil {
		s.players = s.players[:len(s.players)-1]
		return storage.Account{}, gameerr.Persistence(err)
	}
	return rec.account(), nil
}

// AccountByUsername looks up an account by username.
//
// Postcondition: Returns the Account or an error matching gameerr.ErrAccountNotFound.
func (s *Store) AccountByUsername(_ context.Context, username string) (storage.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec := s.byUsername(username)
	if rec == nil {
		return storage.Account{}, fmt.Errorf("account %q: %w", username, gameerr.ErrAccountNotFound)
	}
	return rec.account(), nil
}

// AccountByID looks up an account by id.
//
// Postcondition: Returns the Account or an error matching gameerr.ErrAccountNotFound.
func (s *Store) AccountByID(_ context.Context, id string) (storage.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec := s.byID(id)
	if rec == nil {
		return storage.Account{}, fmt.Errorf("account %q: %w", id, gameerr.ErrAccountNotFound)
	}
	return rec.account(), nil
}

// CreateCharacter attaches c to the account.
//
// Postcondition: Returns nil, or an error matching gameerr.ErrAccountNotFound
// or gameerr.ErrCharacterExists.
func (s *Store) CreateCharacter(_ context.Context, accountID string, c *character.Character) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.byID(accountID)
	if rec == nil {
		return fmt.Errorf("account %q: %w", accountID, gameerr.ErrAccountNotFound)
	}
	if rec.Character != nil {
		return fmt.Errorf("account %q: %w", accountID, gameerr.ErrCharacterExists)
	}
	rec.Character = c.Clone()
	if err := s.flush(); err != nil {
		rec.Character = nil
		return gameerr.Persistence(err)
	}
	return nil
}

// LoadCharacter returns a copy of the account's character.
//
// Postcondition: Returns the Character or an error matching
// gameerr.ErrCharacterNotFound.
func (s *Store) LoadCharacter(_ context.Context, accountID string) (*character.Character, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec := s.byID(accountID)
	if rec == nil || rec.Character == nil {
		return nil, fmt.Errorf("account %q: %w", accountID, gameerr.ErrCharacterNotFound)
	}
	return rec.Character.Clone(), nil
}

// SaveCharacter replaces the account's character.
//
// Postcondition: On error the stored character is unchanged.
func (s *Store) SaveCharacter(_ context.Context, accountID string, c *character.Character) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.byID(accountID)
	if rec == nil || rec.Character == nil {
		return fmt.Errorf("account %q: %w", accountID, gameerr.ErrCharacterNotFound)
	}
	prev := rec.Character
	rec.Character = c.Clone()
	if err := s.flush(); err != nil {
		rec.Character = prev
		return gameerr.Persistence(err)
	}
	return nil
}

// Close is a no-op: every mutation is already on disk.
func (s *Store) Close() error {
	return nil
}

func (s *Store) byUsername(username string) *record {
	for _, r := range s.players {
		if r.Username == username {
			return r
		}
	}
	return nil
}

func (s *Store) byID(id string) *record {
	for _, r := range s.players {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (r *record) account() storage.Account {
	return storage.Account{ID: r.ID, Username: r.Username, PasswordHash: r.Password, CreatedAt: r.CreatedAt}
}

// flush writes the players file. Callers hold mu.
func (s *Store) flush() error {
	players := s.players
	if players == nil {
		players = []*record{}
	}
	data, err := json.MarshalIndent(players, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding players: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".players-*.json")
	if err != nil {
		return fmt.Errorf("creating temp players file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing players file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing players file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing players file: %w", err)
	}
	return nil
}
