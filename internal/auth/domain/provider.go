package domain

import "time"

// ProviderTokens is the e-signature provider token set obtained through the
// PKCE handshake, persisted per user so later envelope operations can reuse
// it across requests.
type ProviderTokens struct {
	UserID       string
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresAt    time.Time
	ObtainedAt   time.Time
	UpdatedAt    time.Time
}
