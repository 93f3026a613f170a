package esign

import (
	"context"
	"sync"
	"time"
)

// RenewMargin is how long before the stated expiry a token is renewed.
// Renewing proactively avoids racing the provider's clock on business calls.
const RenewMargin = 60 * time.Second

// TokenSource hands out a valid provider access token, refreshing it behind
// the scenes when it is within RenewMargin of expiry. Safe for concurrent
// use; the refresh happens at most once per expiry.
type TokenSource struct {
	client *Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time

	now func() time.Time
}

// NewTokenSource wraps a freshly obtained token set.
func NewTokenSource(client *Client, tokens *TokenSet) *TokenSource {
	now := time.Now()
	return &TokenSource{
		client:       client,
		accessToken:  tokens.AccessToken,
		refreshToken: tokens.RefreshToken,
		expiresAt:    tokens.ExpiresAt(now),
		now:          time.Now,
	}
}

// Token returns an access token that is valid for at least RenewMargin.
func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.now().Add(RenewMargin).Before(ts.expiresAt) {
		return ts.accessToken, nil
	}

	tokens, err := ts.client.Refresh(ctx, ts.refreshToken)
	if err != nil {
		return "", err
	}

	ts.accessToken = tokens.AccessToken
	if tokens.RefreshToken != "" {
		ts.refreshToken = tokens.RefreshToken
	}
	ts.expiresAt = tokens.ExpiresAt(ts.now())

	return ts.accessToken, nil
}
