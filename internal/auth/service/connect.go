package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/firmetra/signauth/internal/auth/domain"
	"github.com/firmetra/signauth/internal/auth/store"
	"github.com/firmetra/signauth/pkg/esign"
	"github.com/firmetra/signauth/pkg/slogx"
)

// CodeExchanger is the slice of the provider client the connect flow needs.
// Satisfied by *esign.Client; stubbed in tests.
type CodeExchanger interface {
	AuthorizationURL(challenge, state, scope string) (string, error)
	ExchangeCode(ctx context.Context, code, verifier string) (*esign.TokenSet, error)
}

// ConnectService drives the provider consent flow: mint a challenge and
// consent URL, then on callback validate the round trip, exchange the code,
// and persist the provider's tokens against the user.
type ConnectService struct {
	Challenges *ChallengeService
	Provider   CodeExchanger
	Store      store.Store
	Scope      string

	// Now is swappable for tests. Defaults to time.Now.
	Now func() time.Time
}

func (s *ConnectService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *ConnectService) scope() string {
	if s.Scope != "" {
		return s.Scope
	}
	return esign.DefaultScope
}

// BeginAuth starts a consent flow for the user and returns the URL to send
// them to. Any pending flow for the same user is superseded.
func (s *ConnectService) BeginAuth(ctx context.Context, userID string) (string, error) {
	started, err := s.Challenges.Begin(ctx, userID)
	if err != nil {
		return "", err
	}
	return s.Provider.AuthorizationURL(started.Challenge, started.State, s.scope())
}

// HandleCallback completes the flow: consume and check the challenge,
// trade the authorization code for tokens, and store them for the user.
// The obtained token set is returned for the response body. Challenge
// errors (ErrChallengeMissing, ErrChallengeExpired, ErrStateMismatch) and
// provider errors (esign.ErrValidation, esign.ErrUnavailable) pass through
// for the handler to map.
func (s *ConnectService) HandleCallback(ctx context.Context, userID, code, state string) (*esign.TokenSet, error) {
	l := slogx.FromContext(ctx)

	verifier, err := s.Challenges.Validate(ctx, userID, state)
	if err != nil {
		return nil, err
	}

	tokens, err := s.Provider.ExchangeCode(ctx, code, verifier)
	if err != nil {
		return nil, err
	}

	now := s.now()
	err = s.Store.ProviderTokens().Upsert(ctx, domain.ProviderTokens{
		UserID:       userID,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		TokenType:    tokens.TokenType,
		ExpiresAt:    tokens.ExpiresAt(now),
		ObtainedAt:   now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	l.Info("provider account connected", slog.String("user_id", userID))
	return tokens, nil
}

// Disconnect drops the user's stored provider tokens.
func (s *ConnectService) Disconnect(ctx context.Context, userID string) error {
	return s.Store.ProviderTokens().Delete(ctx, userID)
}
