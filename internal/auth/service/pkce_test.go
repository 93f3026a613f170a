package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestChallengeService_BeginAndValidate(t *testing.T) {
	st := newMemStore(t)
	svc := &ChallengeService{Store: st}

	ctx := context.Background()
	started, err := svc.Begin(ctx, "sess-1")
	require.NoError(t, err)
	require.NotEmpty(t, started.Challenge)
	require.NotEmpty(t, started.State)

	verifier, err := svc.Validate(ctx, "sess-1", started.State)
	require.NoError(t, err)
	require.NotEmpty(t, verifier)

	// The returned verifier must hash to the challenge that went out.
	sum := sha256.Sum256([]byte(verifier))
	require.Equal(t, base64.RawURLEncoding.EncodeToString(sum[:]), started.Challenge)

	// Verifier length sits inside the 43-128 char range RFC 7636 allows.
	require.GreaterOrEqual(t, len(verifier), 43)
	require.LessOrEqual(t, len(verifier), 128)
}

func TestChallengeService_SingleUse(t *testing.T) {
	st := newMemStore(t)
	svc := &ChallengeService{Store: st}

	ctx := context.Background()
	started, err := svc.Begin(ctx, "sess-1")
	require.NoError(t, err)

	_, err = svc.Validate(ctx, "sess-1", started.State)
	require.NoError(t, err)

	// Replay: already consumed.
	_, err = svc.Validate(ctx, "sess-1", started.State)
	require.ErrorIs(t, err, ErrChallengeMissing)
}

func TestChallengeService_StateMismatchConsumesChallenge(t *testing.T) {
	st := newMemStore(t)
	svc := &ChallengeService{Store: st}

	ctx := context.Background()
	started, err := svc.Begin(ctx, "sess-1")
	require.NoError(t, err)

	_, err = svc.Validate(ctx, "sess-1", "forged-state")
	require.ErrorIs(t, err, ErrStateMismatch)

	// Even a failed validation burns the challenge.
	_, err = svc.Validate(ctx, "sess-1", started.State)
	require.ErrorIs(t, err, ErrChallengeMissing)
}

func TestChallengeService_Expired(t *testing.T) {
	st := newMemStore(t)
	now := time.Now()
	svc := &ChallengeService{Store: st, Now: func() time.Time { return now }}

	ctx := context.Background()
	started, err := svc.Begin(ctx, "sess-1")
	require.NoError(t, err)

	now = now.Add(DefaultChallengeTTL + time.Second)
	_, err = svc.Validate(ctx, "sess-1", started.State)
	require.ErrorIs(t, err, ErrChallengeExpired)
}

func TestChallengeService_MissingSession(t *testing.T) {
	st := newMemStore(t)
	svc := &ChallengeService{Store: st}

	_, err := svc.Validate(context.Background(), "never-started", "any")
	require.ErrorIs(t, err, ErrChallengeMissing)
}

func TestChallengeService_NewFlowReplacesPending(t *testing.T) {
	st := newMemStore(t)
	svc := &ChallengeService{Store: st}

	ctx := context.Background()
	first, err := svc.Begin(ctx, "sess-1")
	require.NoError(t, err)
	second, err := svc.Begin(ctx, "sess-1")
	require.NoError(t, err)
	require.NotEqual(t, first.State, second.State)

	// The first flow's state no longer validates.
	_, err = svc.Validate(ctx, "sess-1", first.State)
	require.ErrorIs(t, err, ErrStateMismatch)
}

func TestChallengeService_SessionsAreIndependent(t *testing.T) {
	st := newMemStore(t)
	svc := &ChallengeService{Store: st}

	ctx := context.Background()
	a, err := svc.Begin(ctx, "sess-a")
	require.NoError(t, err)
	b, err := svc.Begin(ctx, "sess-b")
	require.NoError(t, err)

	_, err = svc.Validate(ctx, "sess-a", a.State)
	require.NoError(t, err)
	_, err = svc.Validate(ctx, "sess-b", b.State)
	require.NoError(t, err)
}
