package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/firmetra/signauth/internal/auth/domain"
	"github.com/firmetra/signauth/internal/auth/store"
	"github.com/firmetra/signauth/pkg/idx"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db")
	st, err := NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func testUser(username string) domain.User {
	now := time.Now().UTC().Truncate(time.Second)
	return domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestSQLite_MigrationsIdempotent(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.ApplyMigrations())
}

func TestSQLite_Users(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	u := testUser("alice")
	require.NoError(t, st.Users().CreateUser(ctx, u))

	got, err := st.Users().GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.Equal(t, u.PasswordHash, got.PasswordHash)

	// Username lookup is case-insensitive.
	got, err = st.Users().GetUserByUsername(ctx, "ALICE")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	got, err = st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", got.Username)

	_, err = st.Users().GetUserByUsername(ctx, "nobody")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSQLite_Users_Duplicate(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Users().CreateUser(ctx, testUser("alice")))

	dup := testUser("alice")
	require.ErrorIs(t, st.Users().CreateUser(ctx, dup), store.ErrAlreadyExists)

	// Same email, different username collides too.
	other := testUser("bob")
	other.Email = "alice@example.com"
	require.ErrorIs(t, st.Users().CreateUser(ctx, other), store.ErrAlreadyExists)
}

func TestSQLite_RevokedTokens(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	rt := domain.RevokedToken{JTI: "jti-1", ExpiresAt: now.Add(time.Hour), RevokedAt: now}
	require.NoError(t, st.RevokedTokens().Revoke(ctx, rt))
	require.NoError(t, st.RevokedTokens().Revoke(ctx, rt), "revoke is idempotent")

	revoked, err := st.RevokedTokens().IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.True(t, revoked)

	revoked, err = st.RevokedTokens().IsRevoked(ctx, "jti-unknown")
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, st.RevokedTokens().DeleteExpired(ctx, now.Add(2*time.Hour)))
	revoked, err = st.RevokedTokens().IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestSQLite_LoginAttempts(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	rec, err := st.LoginAttempts().RecordFailure(ctx, "alice", now)
	require.NoError(t, err)
	require.Equal(t, 1, rec.Count)

	later := now.Add(time.Minute)
	rec, err = st.LoginAttempts().RecordFailure(ctx, "Alice", later)
	require.NoError(t, err)
	require.Equal(t, 2, rec.Count, "usernames are case-folded into one record")

	got, err := st.LoginAttempts().Get(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, 2, got.Count)

	require.NoError(t, st.LoginAttempts().Clear(ctx, "alice"))
	_, err = st.LoginAttempts().Get(ctx, "alice")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSQLite_LoginAttempts_DeleteStale(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := st.LoginAttempts().RecordFailure(ctx, "old", now.Add(-time.Hour))
	require.NoError(t, err)
	_, err = st.LoginAttempts().RecordFailure(ctx, "fresh", now)
	require.NoError(t, err)

	require.NoError(t, st.LoginAttempts().DeleteStale(ctx, now.Add(-time.Minute)))

	_, err = st.LoginAttempts().Get(ctx, "old")
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.LoginAttempts().Get(ctx, "fresh")
	require.NoError(t, err)
}

func TestSQLite_Challenges(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	c := domain.Challenge{SessionID: "sess-1", Verifier: "v1", State: "s1", CreatedAt: now}
	require.NoError(t, st.Challenges().Put(ctx, c))

	// Put replaces the pending challenge for the same session.
	c2 := domain.Challenge{SessionID: "sess-1", Verifier: "v2", State: "s2", CreatedAt: now}
	require.NoError(t, st.Challenges().Put(ctx, c2))

	got, err := st.Challenges().Take(ctx, "sess-1")
	require.NoError(t, err)
	require.Equal(t, "v2", got.Verifier)
	require.Equal(t, "s2", got.State)

	// Take removed it.
	_, err = st.Challenges().Take(ctx, "sess-1")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSQLite_Challenges_DeleteExpired(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, st.Challenges().Put(ctx, domain.Challenge{
		SessionID: "old", Verifier: "v", State: "s", CreatedAt: now.Add(-time.Hour),
	}))
	require.NoError(t, st.Challenges().Put(ctx, domain.Challenge{
		SessionID: "new", Verifier: "v", State: "s", CreatedAt: now,
	}))

	require.NoError(t, st.Challenges().DeleteExpired(ctx, now.Add(-10*time.Minute)))

	_, err := st.Challenges().Take(ctx, "old")
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.Challenges().Take(ctx, "new")
	require.NoError(t, err)
}

func TestSQLite_ProviderTokens(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	u := testUser("alice")
	require.NoError(t, st.Users().CreateUser(ctx, u))

	pt := domain.ProviderTokens{
		UserID:       u.ID,
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		TokenType:    "Bearer",
		ExpiresAt:    now.Add(8 * time.Hour),
		ObtainedAt:   now,
		UpdatedAt:    now,
	}
	require.NoError(t, st.ProviderTokens().Upsert(ctx, pt))

	got, err := st.ProviderTokens().Get(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "access-1", got.AccessToken)

	pt.AccessToken = "access-2"
	pt.UpdatedAt = now.Add(time.Hour)
	require.NoError(t, st.ProviderTokens().Upsert(ctx, pt))

	got, err = st.ProviderTokens().Get(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "access-2", got.AccessToken)
	require.Equal(t, "refresh-1", got.RefreshToken)

	require.NoError(t, st.ProviderTokens().Delete(ctx, u.ID))
	_, err = st.ProviderTokens().Get(ctx, u.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}
