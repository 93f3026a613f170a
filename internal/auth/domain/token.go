package domain

import "time"

// TokenPair is what a successful login or refresh returns: a short-lived
// access JWT and a long-lived refresh JWT.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"` // always "Bearer"
	ExpiresIn    int64  `json:"expires_in"` // access token lifetime, seconds
}

// RevokedToken is an entry on the revocation list, keyed by jti. ExpiresAt
// mirrors the token's own expiry: once the token would have expired anyway
// the entry is safe to forget, which is what housekeeping does.
type RevokedToken struct {
	JTI       string
	ExpiresAt time.Time
	RevokedAt time.Time
}
