package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/firmetra/signauth/internal/auth/store"
)

// HousekeepingService periodically deletes records that have aged out:
// revocation entries for tokens past their own expiry, unconsumed PKCE
// challenges, and login-attempt records whose window has long elapsed.
type HousekeepingService struct {
	Store        store.Store
	Logger       *slog.Logger
	Interval     time.Duration
	ChallengeTTL time.Duration
	AttemptTTL   time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates the sweeper. Interval defaults to 1 hour;
// the TTLs default to the challenge and lockout defaults.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:        st,
		Logger:       logger,
		Interval:     interval,
		ChallengeTTL: DefaultChallengeTTL,
		AttemptTTL:   DefaultLockoutWindow,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

// Start begins the background sweep loop. Non-blocking; call Stop to shut
// down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop shuts the worker down and waits for any in-progress sweep.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Sweep once at startup
	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup runs each deletion independently so one failure does not stop
// the others.
func (s *HousekeepingService) cleanup() {
	ctx := context.Background()
	now := time.Now()

	if err := s.Store.RevokedTokens().DeleteExpired(ctx, now); err != nil {
		s.Logger.Error("failed to delete expired revocation entries", "error", err)
	}

	if err := s.Store.Challenges().DeleteExpired(ctx, now.Add(-s.ChallengeTTL)); err != nil {
		s.Logger.Error("failed to delete expired challenges", "error", err)
	}

	if err := s.Store.LoginAttempts().DeleteStale(ctx, now.Add(-s.AttemptTTL)); err != nil {
		s.Logger.Error("failed to delete stale login attempts", "error", err)
	}

	s.Logger.Debug("housekeeping sweep complete")
}
