// Package session persists the signed-in user's credentials between CLI
// invocations: the bearer token and the profile that came with it. It is the
// desktop analog of the browser cookie store the API was designed against.
// Movement data is never persisted here; only who is signed in.
package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the persisted sign-in state.
type Session struct {
	Token     string
	UserID    string
	Name      string
	Email     string
	Currency  string
	ExpiresAt time.Time
	SavedAt   time.Time
}

// Expired reports whether the token's expiry claim has passed. Sessions
// without an expiry claim never expire client-side; the server still
// rejects a stale token.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// TokenExpiry extracts the exp claim from a JWT without verifying the
// signature. Verification is the server's job; the client only wants to
// know when to stop presenting the token.
func TokenExpiry(token string) (time.Time, error) {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, fmt.Errorf("parse token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, nil
	}
	return claims.ExpiresAt.Time, nil
}

// TokenSubject extracts the sub claim, used as a fallback user reference
// when the login response carries no profile.
func TokenSubject(token string) (string, error) {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	return claims.Subject, nil
}
