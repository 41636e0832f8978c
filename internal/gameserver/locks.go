package gameserver

import "sync"

// accountLocks serialises operations per account. Locks are created on first
// use and kept for the life of the process.
type accountLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the account's mutex and returns its release function.
func (a *accountLocks) lock(accountID string) func() {
	a.mu.Lock()
	l, ok := a.locks[accountID]
	if !ok {
		l = &sync.Mutex{}
		a.locks[accountID] = l
	}
	a.mu.Unlock()
	l.Lock()
	return l.Unlock
}
