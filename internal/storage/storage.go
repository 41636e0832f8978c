// Package storage holds the record types shared by the player store backends.
//
// Every backend reports missing records with gameerr.ErrAccountNotFound or
// gameerr.ErrCharacterNotFound, uniqueness violations with
// gameerr.ErrAccountExists or gameerr.ErrCharacterExists, and wraps every
// other failure with gameerr.Persistence.
package storage

import (
	"time"

	"github.com/google/uuid"
)

// Account is a registered login identity. ID is a UUID string.
type Account struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// NewAccountID returns a fresh account id.
func NewAccountID() string {
	return uuid.NewString()
}
