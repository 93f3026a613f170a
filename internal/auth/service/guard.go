package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/firmetra/signauth/internal/auth/store"
	"github.com/firmetra/signauth/pkg/slogx"
)

// ErrAccountLocked is returned while a username is inside its lockout
// window after too many consecutive failures.
var ErrAccountLocked = errors.New("account_locked")

const (
	// DefaultMaxAttempts is the number of consecutive failures that trips
	// the lockout.
	DefaultMaxAttempts = 3

	// DefaultLockoutWindow is how long the lockout lasts, measured from
	// the most recent recorded failure.
	DefaultLockoutWindow = 5 * time.Minute
)

// LoginGuard throttles password guessing per username. Failures accumulate
// until MaxAttempts, then the username is locked for Window from the last
// recorded failure. Attempts made while locked are rejected without being
// recorded, so the lockout cannot be extended indefinitely by probing.
type LoginGuard struct {
	Store       store.Store
	MaxAttempts int
	Window      time.Duration

	// Now is swappable for tests. Defaults to time.Now.
	Now func() time.Time
}

func (g *LoginGuard) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

func (g *LoginGuard) maxAttempts() int {
	if g.MaxAttempts > 0 {
		return g.MaxAttempts
	}
	return DefaultMaxAttempts
}

func (g *LoginGuard) window() time.Duration {
	if g.Window > 0 {
		return g.Window
	}
	return DefaultLockoutWindow
}

// Allow reports whether a login attempt for the username may proceed.
// Returns ErrAccountLocked while the window is open; a record whose window
// has elapsed is cleared so the counter restarts from zero.
func (g *LoginGuard) Allow(ctx context.Context, username string) error {
	rec, err := g.Store.LoginAttempts().Get(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}

	if rec.Count < g.maxAttempts() {
		return nil
	}

	if g.now().Sub(rec.LastFailure) >= g.window() {
		if err := g.Store.LoginAttempts().Clear(ctx, username); err != nil {
			return err
		}
		return nil
	}

	return ErrAccountLocked
}

// RecordFailure notes one failed attempt. The caller must have checked
// Allow first: failures are only recorded for unlocked usernames.
func (g *LoginGuard) RecordFailure(ctx context.Context, username string) error {
	l := slogx.FromContext(ctx)

	rec, err := g.Store.LoginAttempts().RecordFailure(ctx, username, g.now())
	if err != nil {
		return err
	}

	if rec.Count >= g.maxAttempts() {
		l.Warn("login lockout tripped",
			slog.String("username", rec.Username),
			slog.Int("failures", rec.Count))
	}
	return nil
}

// Clear wipes the failure record after a successful login.
func (g *LoginGuard) Clear(ctx context.Context, username string) error {
	return g.Store.LoginAttempts().Clear(ctx, username)
}
