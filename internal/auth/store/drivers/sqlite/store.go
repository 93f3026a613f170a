package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/firmetra/signauth/internal/auth/store"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Users() store.Users                   { return &usersRepo{db: s.db} }
func (s *Store) RevokedTokens() store.RevokedTokens   { return &revokedTokensRepo{db: s.db} }
func (s *Store) LoginAttempts() store.LoginAttempts   { return &loginAttemptsRepo{db: s.db} }
func (s *Store) Challenges() store.Challenges         { return &challengesRepo{db: s.db} }
func (s *Store) ProviderTokens() store.ProviderTokens { return &providerTokensRepo{db: s.db} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func mapConstraint(err error) error {
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}
