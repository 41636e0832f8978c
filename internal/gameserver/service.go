// Package gameserver implements the game operations exposed to clients:
// character creation, movement with encounters, combat actions, crafting,
// and equipment. Every operation on an account runs under that account's
// lock.
package gameserver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/wisperwind/internal/game/character"
	"github.com/cory-johannsen/wisperwind/internal/game/combat"
	"github.com/cory-johannsen/wisperwind/internal/game/dice"
	"github.com/cory-johannsen/wisperwind/internal/game/refdata"
	"github.com/cory-johannsen/wisperwind/internal/gameerr"
)

// CharacterStore persists one character per account.
//
// Implementations report a missing character with an error matching
// gameerr.ErrCharacterNotFound and a duplicate with gameerr.ErrCharacterExists.
type CharacterStore interface {
	CreateCharacter(ctx context.Context, accountID string, c *character.Character) error
	LoadCharacter(ctx context.Context, accountID string) (*character.Character, error)
	SaveCharacter(ctx context.Context, accountID string, c *character.Character) error
}

// Options tunes a Service.
type Options struct {
	// Start is where new and revived characters stand.
	Start character.Position
	// PersistRetries is how many extra attempts a combat result write gets.
	PersistRetries int
	// PersistBackoff is the pause between combat result write attempts.
	PersistBackoff time.Duration
}

// Service is the game core. It is safe for concurrent use.
type Service struct {
	chars    CharacterStore
	ref      *refdata.Store
	sessions *combat.Manager
	dice     dice.Source
	opts     Options
	locks    *accountLocks
	logger   *zap.Logger
}

// NewService wires a Service.
//
// Precondition: chars, ref, sessions, src, and logger must be non-nil;
// opts.Start must lie on ref's map.
func NewService(chars CharacterStore, ref *refdata.Store, sessions *combat.Manager, src dice.Source, opts Options, logger *zap.Logger) (*Service, error) {
	if !ref.Map().InBounds(opts.Start) {
		return nil, fmt.Errorf("start position (%d,%d) is off the map", opts.Start.X, opts.Start.Y)
	}
	if opts.PersistRetries < 0 {
		opts.PersistRetries = 0
	}
	return &Service{
		chars:    chars,
		ref:      ref,
		sessions: sessions,
		dice:     src,
		opts:     opts,
		locks:    newAccountLocks(),
		logger:   logger,
	}, nil
}

// current returns the account's character: the live session character when
// a fight is in progress, otherwise a fresh copy from the store.
//
// Precondition: the account lock is held and settle has run.
func (s *Service) current(ctx context.Context, accountID string) (*character.Character, *combat.Session, error) {
	if sess, ok := s.sessions.Get(accountID); ok {
		return sess.Player, sess, nil
	}
	c, err := s.chars.LoadCharacter(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	return c, nil, nil
}

// commit writes updated and, once the write succeeds, copies it over live.
// live may be nil when the account has no session.
func (s *Service) commit(ctx context.Context, accountID string, live, updated *character.Character) error {
	if err := s.chars.SaveCharacter(ctx, accountID, updated); err != nil {
		s.logger.Error("saving character failed",
			zap.String("account_id", accountID),
			zap.Error(err),
		)
		return gameerr.Persistence(err)
	}
	if live != nil {
		*live = *updated.Clone()
	}
	return nil
}

// persistWithRetry writes c up to 1+PersistRetries times, pausing
// PersistBackoff between attempts.
func (s *Service) persistWithRetry(ctx context.Context, accountID string, c *character.Character) error {
	var err error
	for attempt := 0; attempt <= s.opts.PersistRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return gameerr.Persistence(fmt.Errorf("persisting combat result: %w", errors.Join(err, ctx.Err())))
			case <-time.After(s.opts.PersistBackoff):
			}
		}
		if err = s.chars.SaveCharacter(ctx, accountID, c.Clone()); err == nil {
			return nil
		}
		s.logger.Warn("persisting combat result failed",
			zap.String("account_id", accountID),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}
	s.logger.Error("combat result not persisted; session kept",
		zap.String("account_id", accountID),
		zap.Int("attempts", s.opts.PersistRetries+1),
		zap.Error(err),
	)
	return gameerr.Persistence(fmt.Errorf("persisting combat result: %w", err))
}

// settle finishes a session left Resolved or Defeated by an earlier failed
// write and returns it, or returns nil when nothing was pending.
//
// Precondition: the account lock is held.
// Postcondition: On nil error the account has no terminal session.
func (s *Service) settle(ctx context.Context, accountID string) (*combat.Session, error) {
	sess, ok := s.sessions.Get(accountID)
	if !ok || !sess.State.Terminal() {
		return nil, nil
	}
	if err := s.persistWithRetry(ctx, accountID, sess.Player); err != nil {
		return nil, err
	}
	s.sessions.End(accountID)
	s.logger.Info("pending combat result persisted",
		zap.String("account_id", accountID),
		zap.Stringer("state", sess.State),
	)
	return sess, nil
}

// Recipes returns every recipe.
func (s *Service) Recipes() []*refdata.Recipe {
	return s.ref.Recipes()
}

// Map returns the shared map.
func (s *Service) Map() *refdata.Map {
	return s.ref.Map()
}
