package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"time"

	"github.com/firmetra/signauth/internal/auth/domain"
	"github.com/firmetra/signauth/internal/auth/store"
	"github.com/firmetra/signauth/pkg/cryptox"
)

var (
	ErrChallengeMissing = errors.New("challenge_missing")
	ErrChallengeExpired = errors.New("challenge_expired")
	ErrStateMismatch    = errors.New("state_mismatch")
)

// DefaultChallengeTTL bounds how long a consent redirect may stay pending.
const DefaultChallengeTTL = 10 * time.Minute

// ChallengeService manages the per-session PKCE state for the provider
// consent flow. Each session holds at most one pending challenge; starting
// a new flow replaces any unconsumed one, and validation consumes the
// challenge whether it succeeds or not.
type ChallengeService struct {
	Store store.Store
	TTL   time.Duration

	// Now is swappable for tests. Defaults to time.Now.
	Now func() time.Time
}

// Started is what Begin hands back to the caller: the verifier stays
// server-side, the challenge and state go out in the redirect.
type Started struct {
	Challenge string
	State     string
}

func (s *ChallengeService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *ChallengeService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultChallengeTTL
}

// Begin creates a fresh verifier/challenge/state for the session, storing
// the verifier and returning the parts that go into the authorization URL.
func (s *ChallengeService) Begin(ctx context.Context, sessionID string) (Started, error) {
	verifier, err := cryptox.GenerateToken(cryptox.TokenSize512)
	if err != nil {
		return Started{}, err
	}
	state, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return Started{}, err
	}

	err = s.Store.Challenges().Put(ctx, domain.Challenge{
		SessionID: sessionID,
		Verifier:  verifier,
		State:     state,
		CreatedAt: s.now(),
	})
	if err != nil {
		return Started{}, err
	}

	return Started{Challenge: S256Challenge(verifier), State: state}, nil
}

// Validate consumes the session's pending challenge and checks it against
// the state echoed back by the provider. Checks run in a fixed order so a
// caller holding an expired challenge learns that before any state
// comparison. On success the stored verifier is returned for the code
// exchange.
func (s *ChallengeService) Validate(ctx context.Context, sessionID, state string) (string, error) {
	c, err := s.Store.Challenges().Take(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrChallengeMissing
		}
		return "", err
	}

	if c.ExpiredAt(s.now(), s.ttl()) {
		return "", ErrChallengeExpired
	}

	if subtle.ConstantTimeCompare([]byte(c.State), []byte(state)) != 1 {
		return "", ErrStateMismatch
	}

	return c.Verifier, nil
}

// S256Challenge derives the code_challenge from a verifier per RFC 7636:
// unpadded base64url of the verifier's SHA-256 digest.
func S256Challenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
