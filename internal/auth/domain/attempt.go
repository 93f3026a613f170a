package domain

import "time"

// LoginAttempts tracks consecutive failed logins for one username. Created
// on first failure, incremented per failure, deleted on success. LastFailure
// anchors the lockout window.
type LoginAttempts struct {
	Username    string
	Count       int
	LastFailure time.Time
}
