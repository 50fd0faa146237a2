package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"schoolerp/internal/domain/account"
)

// Durable storage keys. Both are written together on login and removed
// together on logout or forced logout.
const (
	TokenKey = "erp_token"
	UserKey  = "erp_user"
)

// Session is the authentication state: a bearer token and the profile of the
// user it was issued to.
type Session struct {
	Token string
	User  *account.User
}

// IsAuthenticated is true only when both the token and the user are present.
// Partial state counts as logged out.
// INVARIANT: Session fields are not mutated
func (s Session) IsAuthenticated() bool {
	return s.Token != "" && s.User != nil
}

// Role returns the user's role, or RoleNone when unauthenticated.
func (s Session) Role() account.Role {
	if !s.IsAuthenticated() {
		return account.RoleNone
	}
	return s.User.RoleID
}

// TokenExpiry reads the exp claim of a JWT without verifying its signature.
// The result is for display only; the backend stays the authority on
// whether a token is still accepted. ok is false for opaque tokens or
// tokens without an exp claim.
func TokenExpiry(token string) (expiresAt time.Time, ok bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
