package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/firmetra/signauth/internal/auth/domain"
)

type loginAttemptsRepo struct {
	db *sql.DB
}

func (r *loginAttemptsRepo) Get(ctx context.Context, username string) (domain.LoginAttempts, error) {
	username = strings.ToLower(username)

	var rec domain.LoginAttempts
	err := r.db.QueryRowContext(ctx, `
		SELECT username, count, last_failure
		FROM login_attempts
		WHERE username = ?`, username).
		Scan(&rec.Username, &rec.Count, &rec.LastFailure)
	if err != nil {
		return domain.LoginAttempts{}, mapNotFound(err)
	}
	return rec, nil
}

func (r *loginAttemptsRepo) RecordFailure(ctx context.Context, username string, at time.Time) (domain.LoginAttempts, error) {
	username = strings.ToLower(username)

	var rec domain.LoginAttempts
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO login_attempts (username, count, last_failure)
		VALUES (?, 1, ?)
		ON CONFLICT (username) DO UPDATE SET
			count        = count + 1,
			last_failure = excluded.last_failure
		RETURNING username, count, last_failure`,
		username, at).
		Scan(&rec.Username, &rec.Count, &rec.LastFailure)
	if err != nil {
		return domain.LoginAttempts{}, err
	}
	return rec, nil
}

func (r *loginAttemptsRepo) Clear(ctx context.Context, username string) error {
	username = strings.ToLower(username)

	_, err := r.db.ExecContext(ctx,
		`DELETE FROM login_attempts WHERE username = ?`, username)
	return err
}

func (r *loginAttemptsRepo) DeleteStale(ctx context.Context, cutoff time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM login_attempts WHERE last_failure < ?`, cutoff)
	return err
}
