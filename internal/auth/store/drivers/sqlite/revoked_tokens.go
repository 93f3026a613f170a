package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/firmetra/signauth/internal/auth/domain"
)

type revokedTokensRepo struct {
	db *sql.DB
}

func (r *revokedTokensRepo) Revoke(ctx context.Context, t domain.RevokedToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO revoked_tokens (jti, expires_at, revoked_at)
		VALUES (?, ?, ?)
		ON CONFLICT (jti) DO NOTHING`,
		t.JTI, t.ExpiresAt, t.RevokedAt)
	return err
}

func (r *revokedTokensRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM revoked_tokens WHERE jti = ?`, jti).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *revokedTokensRepo) DeleteExpired(ctx context.Context, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM revoked_tokens WHERE expires_at < ?`, now)
	return err
}
