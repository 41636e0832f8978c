package combat

import (
	"fmt"
	"sync"

	"github.com/cory-johannsen/wisperwind/internal/game/character"
	"github.com/cory-johannsen/wisperwind/internal/game/refdata"
	"github.com/cory-johannsen/wisperwind/internal/gameerr"
)

// Manager holds every live Session, keyed by account id. Sessions live only
// in process memory. All methods are safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates an empty Manager.
//
// Postcondition: Returns a non-nil Manager ready for use.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Start opens a fight between char and a fresh instance of tmpl.
//
// Precondition: accountID must be non-empty; char and tmpl must be non-nil.
// Postcondition: Returns the new active Session, or an error matching
// gameerr.ErrSessionAlreadyActive if the account already has one.
func (m *Manager) Start(accountID string, char *character.Character, tmpl *refdata.MonsterTemplate) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[accountID]; exists {
		return nil, fmt.Errorf("starting combat for account %q: %w", accountID, gameerr.ErrSessionAlreadyActive)
	}
	s := &Session{
		AccountID: accountID,
		Player:    char,
		Monster:   NewMonsterInstance(tmpl),
		State:     StateActive,
	}
	m.sessions[accountID] = s
	return s, nil
}

// Get returns the session for accountID.
//
// Postcondition: Returns (session, true) if found, or (nil, false) otherwise.
func (m *Manager) Get(accountID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[accountID]
	return s, ok
}

// End removes the session for accountID. Ending a missing session is a no-op.
func (m *Manager) End(accountID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, accountID)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
