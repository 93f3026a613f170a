// Package memory is an in-process Store driver backed by mutex-guarded maps.
// It serves tests and single-instance deployments; multi-instance setups
// should use the sqlite driver (or front these tables with a shared cache).
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/firmetra/signauth/internal/auth/domain"
	"github.com/firmetra/signauth/internal/auth/store"
)

type Store struct {
	mu sync.RWMutex

	usersByID       map[string]domain.User
	usersByUsername map[string]string // username -> id
	usersByEmail    map[string]string // email -> id
	revoked         map[string]domain.RevokedToken
	attempts        map[string]domain.LoginAttempts
	challenges      map[string]domain.Challenge
	providerTokens  map[string]domain.ProviderTokens
}

func NewStore() *Store {
	return &Store{
		usersByID:       make(map[string]domain.User),
		usersByUsername: make(map[string]string),
		usersByEmail:    make(map[string]string),
		revoked:         make(map[string]domain.RevokedToken),
		attempts:        make(map[string]domain.LoginAttempts),
		challenges:      make(map[string]domain.Challenge),
		providerTokens:  make(map[string]domain.ProviderTokens),
	}
}

func (s *Store) Users() store.Users                   { return (*usersRepo)(s) }
func (s *Store) RevokedTokens() store.RevokedTokens   { return (*revokedRepo)(s) }
func (s *Store) LoginAttempts() store.LoginAttempts   { return (*attemptsRepo)(s) }
func (s *Store) Challenges() store.Challenges         { return (*challengesRepo)(s) }
func (s *Store) ProviderTokens() store.ProviderTokens { return (*providerTokensRepo)(s) }

func (s *Store) ApplyMigrations() error     { return nil }
func (s *Store) Close() error               { return nil }
func (s *Store) Ping(context.Context) error { return nil }

type usersRepo Store

func (r *usersRepo) GetUserByUsername(_ context.Context, username string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.usersByUsername[normalize(username)]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return r.usersByID[id], nil
}

func (r *usersRepo) GetUserByID(_ context.Context, id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.usersByID[id]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return u, nil
}

func (r *usersRepo) CreateUser(_ context.Context, u domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	username := normalize(u.Username)
	email := normalize(u.Email)

	if _, taken := r.usersByUsername[username]; taken {
		return store.ErrAlreadyExists
	}
	if _, taken := r.usersByEmail[email]; taken {
		return store.ErrAlreadyExists
	}

	r.usersByID[u.ID] = u
	r.usersByUsername[username] = u.ID
	r.usersByEmail[email] = u.ID
	return nil
}

type revokedRepo Store

func (r *revokedRepo) Revoke(_ context.Context, t domain.RevokedToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.revoked[t.JTI]; !exists {
		r.revoked[t.JTI] = t
	}
	return nil
}

func (r *revokedRepo) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.revoked[jti]
	return ok, nil
}

func (r *revokedRepo) DeleteExpired(_ context.Context, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for jti, t := range r.revoked {
		if now.After(t.ExpiresAt) {
			delete(r.revoked, jti)
		}
	}
	return nil
}

type attemptsRepo Store

func (r *attemptsRepo) Get(_ context.Context, username string) (domain.LoginAttempts, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.attempts[normalize(username)]
	if !ok {
		return domain.LoginAttempts{}, store.ErrNotFound
	}
	return a, nil
}

func (r *attemptsRepo) RecordFailure(_ context.Context, username string, at time.Time) (domain.LoginAttempts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := normalize(username)
	a := r.attempts[key]
	a.Username = key
	a.Count++
	a.LastFailure = at
	r.attempts[key] = a
	return a, nil
}

func (r *attemptsRepo) Clear(_ context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.attempts, normalize(username))
	return nil
}

func (r *attemptsRepo) DeleteStale(_ context.Context, cutoff time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, a := range r.attempts {
		if a.LastFailure.Before(cutoff) {
			delete(r.attempts, key)
		}
	}
	return nil
}

type challengesRepo Store

func (r *challengesRepo) Put(_ context.Context, c domain.Challenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.challenges[c.SessionID] = c
	return nil
}

func (r *challengesRepo) Take(_ context.Context, sessionID string) (domain.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.challenges[sessionID]
	if !ok {
		return domain.Challenge{}, store.ErrNotFound
	}
	delete(r.challenges, sessionID)
	return c, nil
}

func (r *challengesRepo) DeleteExpired(_ context.Context, cutoff time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, c := range r.challenges {
		if c.CreatedAt.Before(cutoff) {
			delete(r.challenges, id)
		}
	}
	return nil
}

type providerTokensRepo Store

func (r *providerTokensRepo) Upsert(_ context.Context, t domain.ProviderTokens) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.providerTokens[t.UserID] = t
	return nil
}

func (r *providerTokensRepo) Get(_ context.Context, userID string) (domain.ProviderTokens, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.providerTokens[userID]
	if !ok {
		return domain.ProviderTokens{}, store.ErrNotFound
	}
	return t, nil
}

func (r *providerTokensRepo) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.providerTokens, userID)
	return nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
