package domain

import "time"

// User is an account identity. Password material is only ever stored as an
// Argon2id PHC hash.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
