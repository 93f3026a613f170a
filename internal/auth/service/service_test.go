package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/firmetra/signauth/internal/auth/domain"
	"github.com/firmetra/signauth/internal/auth/store"
	"github.com/firmetra/signauth/internal/auth/store/drivers/memory"
	"github.com/firmetra/signauth/pkg/cryptox"
	"github.com/firmetra/signauth/pkg/idx"
	"github.com/firmetra/signauth/pkg/jwtx"
)

const testIssuer = "signauth-test"

var testSigningKey = []byte("0123456789abcdef0123456789abcdef")

func newTestSigner(t *testing.T) *jwtx.HS256 {
	t.Helper()
	signer, err := jwtx.NewHS256(testSigningKey, testIssuer)
	require.NoError(t, err)
	return signer
}

func seedUser(t *testing.T, st store.Store, username, password string) domain.User {
	t.Helper()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func newTestSessions(t *testing.T, st store.Store) *SessionService {
	t.Helper()
	return &SessionService{
		Signer: newTestSigner(t),
		Store:  st,
		Issuer: testIssuer,
	}
}

func newMemStore(t *testing.T) *memory.Store {
	t.Helper()
	return memory.NewStore()
}
