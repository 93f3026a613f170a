package sqlite

import (
	"context"
	"database/sql"

	"github.com/firmetra/signauth/internal/auth/domain"
)

type providerTokensRepo struct {
	db *sql.DB
}

func (r *providerTokensRepo) Upsert(ctx context.Context, t domain.ProviderTokens) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO provider_tokens (user_id, access_token, refresh_token, token_type, expires_at, obtained_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			access_token  = excluded.access_token,
			refresh_token = excluded.refresh_token,
			token_type    = excluded.token_type,
			expires_at    = excluded.expires_at,
			updated_at    = excluded.updated_at`,
		t.UserID, t.AccessToken, t.RefreshToken, t.TokenType, t.ExpiresAt, t.ObtainedAt, t.UpdatedAt)
	return err
}

func (r *providerTokensRepo) Get(ctx context.Context, userID string) (domain.ProviderTokens, error) {
	var t domain.ProviderTokens
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, access_token, refresh_token, token_type, expires_at, obtained_at, updated_at
		FROM provider_tokens
		WHERE user_id = ?`, userID).
		Scan(&t.UserID, &t.AccessToken, &t.RefreshToken, &t.TokenType, &t.ExpiresAt, &t.ObtainedAt, &t.UpdatedAt)
	if err != nil {
		return domain.ProviderTokens{}, mapNotFound(err)
	}
	return t, nil
}

func (r *providerTokensRepo) Delete(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM provider_tokens WHERE user_id = ?`, userID)
	return err
}
