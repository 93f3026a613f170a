package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Default token TTL constants for the session token pair. Short-lived access
// tokens with long-lived refresh tokens; both can be overridden per-service.
const (
	DefaultAccessTokenTTL  = time.Hour
	DefaultRefreshTokenTTL = 30 * 24 * time.Hour
)

// TokenKind distinguishes access tokens from refresh tokens. The kind is a
// claim so a refresh token can never be replayed as an access token.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// Claims are the session-token claims. Additive changes only, to keep
// outstanding tokens verifiable.
type Claims struct {
	jwt.RegisteredClaims

	// Kind is "access" or "refresh".
	Kind TokenKind `json:"knd"`
}

// NewSessionClaims builds minimally-correct claims for a session token.
// The jti is a fresh random UUID and is the revocation key.
func NewSessionClaims(subject string, kind TokenKind, ttl time.Duration, issuer string, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Kind: kind,
	}
}
