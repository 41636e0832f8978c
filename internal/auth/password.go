// Package auth registers and logs in accounts, issues bearer tokens, and
// resolves requests to account ids.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes and checks passwords with bcrypt.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher using cost.
//
// Precondition: cost must be within [bcrypt.MinCost, bcrypt.MaxCost].
func NewHasher(cost int) Hasher {
	return Hasher{cost: cost}
}

// Hash creates a bcrypt hash of password.
//
// Precondition: password must be non-empty and at most 72 bytes.
// Postcondition: Returns a bcrypt hash string or a non-nil error.
func (h Hasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// Check compares a plaintext password against a bcrypt hash.
//
// Postcondition: Returns true iff password matches hash.
func (h Hasher) Check(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
