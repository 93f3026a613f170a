package domain

import "time"

// Challenge is an ephemeral PKCE challenge bound to one caller's session.
// It is single-use: validation deletes it whether or not it succeeds, so a
// replayed callback can never revalidate.
type Challenge struct {
	SessionID string
	Verifier  string // 43-128 chars, unreserved set
	State     string // anti-CSRF token round-tripped through the redirect
	CreatedAt time.Time
}

// ExpiredAt reports whether the challenge is older than ttl at the given
// instant.
func (c *Challenge) ExpiredAt(now time.Time, ttl time.Duration) bool {
	return now.Sub(c.CreatedAt) > ttl
}
