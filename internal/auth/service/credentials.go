package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/firmetra/signauth/internal/auth/domain"
	"github.com/firmetra/signauth/internal/auth/store"
	"github.com/firmetra/signauth/pkg/cryptox"
	"github.com/firmetra/signauth/pkg/idx"
	"github.com/firmetra/signauth/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrDuplicateIdentity  = errors.New("duplicate_identity")
	ErrWeakPassword       = errors.New("weak_password")
)

// MinPasswordLength is the floor for new account passwords.
const MinPasswordLength = 8

// CredentialService owns password verification and account creation. It
// never stores or returns a plaintext password: hashing happens on the way
// in, comparison happens against the stored hash only.
type CredentialService struct {
	Store store.Store
}

// Verify checks a username/password pair and returns the matching user.
// An unknown username and a wrong password both yield ErrInvalidCredentials
// so a caller cannot probe which usernames exist.
func (s *CredentialService) Verify(ctx context.Context, username, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn a hash comparison anyway so the unknown-user path
			// takes as long as the wrong-password path.
			_ = cryptox.VerifyPassword(password, ghostHash)
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}

	return user, nil
}

// Create registers a new user. Returns ErrDuplicateIdentity when the
// username or email is already taken.
func (s *CredentialService) Create(ctx context.Context, username, email, password string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	if len(password) < MinPasswordLength {
		return domain.User{}, ErrWeakPassword
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Username:     strings.ToLower(username),
		Email:        strings.ToLower(email),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrDuplicateIdentity
		}
		return domain.User{}, err
	}

	l.Info("user registered", slog.String("user_id", user.ID))
	return user, nil
}

// ghostHash is a valid argon2id hash of a random throwaway value, compared
// against when the username does not exist.
var ghostHash = func() string {
	h, err := cryptox.HashPassword("ghost-comparison-placeholder")
	if err != nil {
		panic(err)
	}
	return h
}()
