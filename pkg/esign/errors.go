package esign

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration reports missing or placeholder provider settings.
	ErrConfiguration = errors.New("esign: configuration error")

	// ErrValidation reports a grant the provider rejected (bad or expired
	// code, wrong verifier, revoked refresh token). Not retryable: replaying
	// a consumed authorization code is rejected by the provider.
	ErrValidation = errors.New("esign: provider rejected the grant")

	// ErrUnavailable reports a network failure, timeout, or provider 5xx.
	// The caller may retry the whole flow.
	ErrUnavailable = errors.New("esign: provider unavailable")

	// ErrSignatureInvalid reports a webhook whose HMAC signature is absent
	// or does not match the payload.
	ErrSignatureInvalid = errors.New("esign: invalid webhook signature")
)

// GrantError carries the provider's OAuth2 error body alongside the
// ErrValidation sentinel so callers can branch with errors.Is and still
// surface the provider's error code.
type GrantError struct {
	StatusCode  int
	Code        string // provider "error" field, e.g. "invalid_grant"
	Description string
}

func (e *GrantError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("esign: provider returned %d %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("esign: provider returned %d %s: %s", e.StatusCode, e.Code, e.Description)
}

func (e *GrantError) Unwrap() error { return ErrValidation }
