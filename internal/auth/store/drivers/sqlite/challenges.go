package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/firmetra/signauth/internal/auth/domain"
)

type challengesRepo struct {
	db *sql.DB
}

func (r *challengesRepo) Put(ctx context.Context, c domain.Challenge) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pkce_challenges (session_id, verifier, state, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (session_id) DO UPDATE SET
			verifier   = excluded.verifier,
			state      = excluded.state,
			created_at = excluded.created_at`,
		c.SessionID, c.Verifier, c.State, c.CreatedAt)
	return err
}

// Take removes and returns the challenge in one statement so a replayed
// callback cannot observe the same verifier twice.
func (r *challengesRepo) Take(ctx context.Context, sessionID string) (domain.Challenge, error) {
	c := domain.Challenge{SessionID: sessionID}
	err := r.db.QueryRowContext(ctx, `
		DELETE FROM pkce_challenges
		WHERE session_id = ?
		RETURNING verifier, state, created_at`, sessionID).
		Scan(&c.Verifier, &c.State, &c.CreatedAt)
	if err != nil {
		return domain.Challenge{}, mapNotFound(err)
	}
	return c, nil
}

func (r *challengesRepo) DeleteExpired(ctx context.Context, cutoff time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM pkce_challenges WHERE created_at < ?`, cutoff)
	return err
}
