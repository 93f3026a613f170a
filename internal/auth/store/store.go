package store

import (
	"context"
	"errors"
	"time"

	"github.com/firmetra/signauth/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for
// deployments, memory for tests and single-instance setups) implement this.
// Sub-repositories keep concerns tidy; every operation is a single atomic
// state transition, so there is no cross-repo transaction surface.
type Store interface {
	Users() Users
	RevokedTokens() RevokedTokens
	LoginAttempts() LoginAttempts
	Challenges() Challenges
	ProviderTokens() ProviderTokens

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the backing store is still reachable.
	Ping(ctx context.Context) error
}

type Users interface {
	// GetUserByUsername is the login-path lookup.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the username or email is taken.
	CreateUser(ctx context.Context, u domain.User) error
}

type RevokedTokens interface {
	// Revoke adds a jti to the revocation list. Idempotent.
	Revoke(ctx context.Context, t domain.RevokedToken) error

	// IsRevoked reports whether the jti is on the list.
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// DeleteExpired forgets entries whose token has expired anyway.
	DeleteExpired(ctx context.Context, now time.Time) error
}

type LoginAttempts interface {
	// Get returns the attempt record for a username, or ErrNotFound.
	Get(ctx context.Context, username string) (domain.LoginAttempts, error)

	// RecordFailure creates or increments the record and returns the
	// updated state.
	RecordFailure(ctx context.Context, username string, at time.Time) (domain.LoginAttempts, error)

	// Clear deletes the record (successful login or elapsed window).
	Clear(ctx context.Context, username string) error

	// DeleteStale removes records whose last failure predates cutoff.
	DeleteStale(ctx context.Context, cutoff time.Time) error
}

type Challenges interface {
	// Put stores a challenge keyed by session, overwriting any unconsumed
	// challenge for that session.
	Put(ctx context.Context, c domain.Challenge) error

	// Take atomically removes and returns the challenge for a session.
	// Single-use is enforced here: a second Take returns ErrNotFound.
	Take(ctx context.Context, sessionID string) (domain.Challenge, error)

	// DeleteExpired removes challenges created before cutoff.
	DeleteExpired(ctx context.Context, cutoff time.Time) error
}

type ProviderTokens interface {
	// Upsert stores or replaces the provider token set for a user.
	Upsert(ctx context.Context, t domain.ProviderTokens) error

	// Get returns the stored token set for a user, or ErrNotFound.
	Get(ctx context.Context, userID string) (domain.ProviderTokens, error)

	// Delete removes a user's provider tokens (disconnect).
	Delete(ctx context.Context, userID string) error
}
