package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/firmetra/signauth/internal/auth/domain"
	"github.com/firmetra/signauth/internal/auth/store"
	"github.com/firmetra/signauth/pkg/jwtx"
	"github.com/firmetra/signauth/pkg/slogx"
)

var (
	ErrInvalidToken   = errors.New("invalid_token")
	ErrTokenRevoked   = errors.New("token_revoked")
	ErrInvalidRefresh = errors.New("invalid_refresh_token")
)

// SessionService mints, verifies and revokes the session token pair. The
// signer handles signature/expiry/issuer; this service layers the
// revocation list and kind checks on top.
type SessionService struct {
	Signer     *jwtx.HS256
	Store      store.Store
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Issuer     string

	// Now is swappable for tests. Defaults to time.Now.
	Now func() time.Time
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *SessionService) accessTTL() time.Duration {
	if s.AccessTTL > 0 {
		return s.AccessTTL
	}
	return jwtx.DefaultAccessTokenTTL
}

func (s *SessionService) refreshTTL() time.Duration {
	if s.RefreshTTL > 0 {
		return s.RefreshTTL
	}
	return jwtx.DefaultRefreshTokenTTL
}

// IssuePair mints a fresh access/refresh token pair for a user.
func (s *SessionService) IssuePair(ctx context.Context, userID string) (domain.TokenPair, error) {
	now := s.now()

	access, err := s.Signer.Sign(jwtx.NewSessionClaims(userID, jwtx.KindAccess, s.accessTTL(), s.Issuer, now))
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := s.Signer.Sign(jwtx.NewSessionClaims(userID, jwtx.KindRefresh, s.refreshTTL(), s.Issuer, now))
	if err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessTTL().Seconds()),
	}, nil
}

// VerifyAccessToken validates an access token end to end: signature,
// expiry, issuer, kind, and the revocation list.
func (s *SessionService) VerifyAccessToken(ctx context.Context, token string) (jwtx.Claims, error) {
	claims, err := s.Signer.Verify(token)
	if err != nil {
		return jwtx.Claims{}, err
	}
	if claims.Kind != jwtx.KindAccess {
		return jwtx.Claims{}, ErrInvalidToken
	}

	revoked, err := s.Store.RevokedTokens().IsRevoked(ctx, claims.ID)
	if err != nil {
		return jwtx.Claims{}, err
	}
	if revoked {
		return jwtx.Claims{}, ErrTokenRevoked
	}

	return claims, nil
}

// Refresh exchanges a valid refresh token for a new pair. The spent
// refresh token's jti is revoked so each refresh token works exactly once.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	claims, err := s.Signer.Verify(refreshToken)
	if err != nil {
		return domain.TokenPair{}, ErrInvalidRefresh
	}
	if claims.Kind != jwtx.KindRefresh {
		return domain.TokenPair{}, ErrInvalidRefresh
	}

	revoked, err := s.Store.RevokedTokens().IsRevoked(ctx, claims.ID)
	if err != nil {
		return domain.TokenPair{}, err
	}
	if revoked {
		l.Warn("reuse of spent refresh token", slog.String("user_id", claims.Subject))
		return domain.TokenPair{}, ErrInvalidRefresh
	}

	if err := s.revokeClaims(ctx, claims); err != nil {
		return domain.TokenPair{}, err
	}

	return s.IssuePair(ctx, claims.Subject)
}

// Revoke invalidates a presented access token. The token must still verify;
// an already-expired token needs no revoking.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	claims, err := s.Signer.Verify(token)
	if err != nil {
		return ErrInvalidToken
	}
	return s.revokeClaims(ctx, claims)
}

func (s *SessionService) revokeClaims(ctx context.Context, claims jwtx.Claims) error {
	return s.Store.RevokedTokens().Revoke(ctx, domain.RevokedToken{
		JTI:       claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
		RevokedAt: s.now(),
	})
}
