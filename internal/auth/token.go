package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cory-johannsen/wisperwind/internal/gameerr"
)

const issuer = "wisperwind"

// Tokens issues and verifies HS256 bearer tokens whose subject is the account id.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens returns a Tokens signing with secret. Issued tokens expire after ttl.
//
// Precondition: secret must be non-empty; ttl must be positive.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock returns a copy of t that reads the current time from now.
func (t *Tokens) WithClock(now func() time.Time) *Tokens {
	out := *t
	out.now = now
	return &out
}

// Issue returns a signed token for accountID.
//
// Precondition: accountID must be non-empty.
func (t *Tokens) Issue(accountID string) (string, error) {
	now := t.now()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   accountID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify checks token and returns its account id.
//
// Postcondition: Returns an error matching gameerr.ErrUnauthorized for any
// malformed, expired, or foreign token.
func (t *Tokens) Verify(token string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return "", fmt.Errorf("verifying token: %v: %w", err, gameerr.ErrUnauthorized)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("verifying token: empty subject: %w", gameerr.ErrUnauthorized)
	}
	return claims.Subject, nil
}

// AccountResolver maps a request to the account making it.
type AccountResolver interface {
	ResolveAccount(r *http.Request) (string, error)
}

// BearerResolver reads "Authorization: Bearer <token>", falling back to a
// "token" query parameter for clients that cannot set headers (websocket
// upgrades from browsers).
type BearerResolver struct {
	Tokens *Tokens
}

// ResolveAccount returns the account id carried by r's token.
//
// Postcondition: Returns an error matching gameerr.ErrUnauthorized when no
// valid token is present.
func (b BearerResolver) ResolveAccount(r *http.Request) (string, error) {
	token := ""
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, rest, ok := strings.Cut(h, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return "", fmt.Errorf("authorization header is not a bearer token: %w", gameerr.ErrUnauthorized)
		}
		token = strings.TrimSpace(rest)
	} else {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		return "", fmt.Errorf("missing bearer token: %w", gameerr.ErrUnauthorized)
	}
	return b.Tokens.Verify(token)
}
