package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/firmetra/signauth/internal/auth/domain"
	"github.com/firmetra/signauth/pkg/slogx"
)

// AuthService is the login/logout orchestrator. It sequences the lockout
// guard, credential check and token mint so handlers deal with exactly one
// entry point per operation.
type AuthService struct {
	Credentials *CredentialService
	Sessions    *SessionService
	Guard       *LoginGuard
}

// Login authenticates a username/password pair and mints a session pair.
//
// Order matters: the guard runs first so a locked account is rejected
// before any password work, and the failure is only recorded when the
// attempt was allowed to run. Both unknown-user and wrong-password come
// back as ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	if err := s.Guard.Allow(ctx, username); err != nil {
		if errors.Is(err, ErrAccountLocked) {
			l.Info("login rejected, account locked", slog.String("username", username))
		}
		return domain.TokenPair{}, err
	}

	user, err := s.Credentials.Verify(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			if rerr := s.Guard.RecordFailure(ctx, username); rerr != nil {
				l.Error("failed to record login failure", "error", rerr)
			}
		}
		return domain.TokenPair{}, err
	}

	if err := s.Guard.Clear(ctx, username); err != nil {
		l.Error("failed to clear login failures", "error", err)
	}

	pair, err := s.Sessions.IssuePair(ctx, user.ID)
	if err != nil {
		return domain.TokenPair{}, err
	}

	l.Info("login succeeded", slog.String("user_id", user.ID))
	return pair, nil
}

// Logout revokes the presented access token. Revoking is idempotent;
// logging out twice with the same token succeeds both times.
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	return s.Sessions.Revoke(ctx, accessToken)
}
