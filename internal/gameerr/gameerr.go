// Package gameerr defines the error taxonomy shared by the game core,
// the player stores, and the transport layer.
package gameerr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for reporting.
type Kind int

const (
	// KindPersistence marks store failures and anything unclassified.
	KindPersistence Kind = iota
	// KindValidation marks rejected input; no state was mutated.
	KindValidation
	// KindNotFound marks a missing account, session, recipe, or item.
	KindNotFound
	// KindConflict marks an operation colliding with existing state.
	KindConflict
	// KindUnauthorized marks a request without a valid identity.
	KindUnauthorized
)

// String returns the lower-case label of the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "persistence"
	}
}

// Error is a classified game error.
//
// Two Errors match under errors.Is when their Codes are equal, so a sentinel
// decorated with a different message still matches the sentinel.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

// Error returns the message, followed by the wrapped cause if any.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithMessage returns a copy of e carrying a more specific message.
//
// Postcondition: errors.Is(result, e) is true.
func (e *Error) WithMessage(format string, args ...any) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: fmt.Sprintf(format, args...), Err: e.Err}
}

func newError(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

// Validation errors.
var (
	ErrInvalidMove      = newError(KindValidation, "invalid_move", "Invalid move.")
	ErrOutOfBounds      = newError(KindValidation, "out_of_bounds", "Destination is outside the map.")
	ErrUnknownAction    = newError(KindValidation, "unknown_action", "Unknown combat action.")
	ErrMalformedRequest = newError(KindValidation, "malformed_request", "Malformed request.")
	ErrUnknownJob       = newError(KindValidation, "unknown_job", "Unknown job.")
	ErrNotEquippable    = newError(KindValidation, "not_equippable", "Item cannot be equipped.")
	// ErrInsufficientIngredients is reported when a recipe cannot be paid for.
	ErrInsufficientIngredients = newError(KindValidation, "insufficient_ingredients", "Not enough ingredients.")
)

// Not-found errors.
var (
	ErrAccountNotFound   = newError(KindNotFound, "account_not_found", "Account not found.")
	ErrCharacterNotFound = newError(KindNotFound, "character_not_found", "Player not found.")
	ErrNoActiveCombat    = newError(KindNotFound, "no_active_combat", "No active combat.")
	ErrRecipeNotFound    = newError(KindNotFound, "recipe_not_found", "Recipe not found.")
	ErrItemNotFound      = newError(KindNotFound, "item_not_found", "Item not found.")
	ErrMonsterNotFound   = newError(KindNotFound, "monster_not_found", "Monster not found.")
)

// Conflict errors.
var (
	ErrSessionAlreadyActive = newError(KindConflict, "session_already_active", "A combat session is already active.")
	ErrAccountExists        = newError(KindConflict, "account_exists", "Username already exists.")
	ErrCharacterExists      = newError(KindConflict, "character_exists", "Character already exists.")
	ErrInCombat             = newError(KindConflict, "in_combat", "Not allowed during combat.")
)

// Unauthorized errors.
var (
	ErrInvalidCredentials = newError(KindUnauthorized, "invalid_credentials", "Invalid username or password.")
	ErrUnauthorized       = newError(KindUnauthorized, "unauthorized", "Authentication required.")
)

// ErrPersistence is the code shared by every wrapped store failure.
var ErrPersistence = newError(KindPersistence, "persistence", "Internal storage failure.")

// Persistence wraps a store failure.
//
// Postcondition: Returns nil when err is nil; errors.Is(result, ErrPersistence)
// holds otherwise, and errors.Is(result, err) still matches the cause.
func Persistence(err error) error {
	if err == nil {
		return nil
	}
	var ge *Error
	if errors.As(err, &ge) {
		return err
	}
	return &Error{Kind: KindPersistence, Code: ErrPersistence.Code, Message: ErrPersistence.Message, Err: err}
}

// KindOf classifies err. Unclassified errors are KindPersistence.
func KindOf(err error) Kind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return KindPersistence
}

// CodeOf returns the machine-readable code of err.
func CodeOf(err error) string {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Code
	}
	return ErrPersistence.Code
}

// MessageOf returns a caller-safe message: the classified message, or the
// generic persistence message for unclassified errors.
func MessageOf(err error) string {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Message
	}
	return ErrPersistence.Message
}
