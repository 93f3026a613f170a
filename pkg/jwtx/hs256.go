package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed  = errors.New("jwtx: malformed token")
	ErrInvalidSig = errors.New("jwtx: invalid signature")
	ErrExpired    = errors.New("jwtx: token expired")
	ErrIssuer     = errors.New("jwtx: issuer mismatch")
	ErrWeakKey    = errors.New("jwtx: signing key must be at least 32 bytes")
)

// HS256 signs and verifies session tokens with a single process-wide
// symmetric key. Rotating the key invalidates every outstanding token, which
// is acceptable: callers re-authenticate.
type HS256 struct {
	key    []byte
	issuer string
}

// NewHS256 creates a signer/verifier from the given key. The key must carry
// at least 256 bits of entropy.
func NewHS256(key []byte, issuer string) (*HS256, error) {
	if len(key) < 32 {
		return nil, ErrWeakKey
	}
	return &HS256{key: key, issuer: issuer}, nil
}

// Sign produces a compact serialized JWT for the given claims.
func (h *HS256) Sign(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.key)
}

// Verify parses and validates a compact token: signature, exp/nbf, issuer.
// It does not consult the revocation list; that is the session service's job.
func (h *HS256) Verify(token string) (Claims, error) {
	var claims Claims

	_, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (any, error) { return h.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(h.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, ErrInvalidSig
		case errors.Is(err, jwt.ErrTokenInvalidIssuer):
			return Claims{}, ErrIssuer
		default:
			return Claims{}, ErrMalformed
		}
	}

	return claims, nil
}
