package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/firmetra/signauth/pkg/jwtx"
	"github.com/firmetra/signauth/pkg/slogx"
)

// SessionVerifier validates a bearer access token end to end: signature,
// expiry, kind, and revocation.
type SessionVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (jwtx.Claims, error)
}

// AuthnMiddleware enforces a valid bearer access token and injects the
// verified claims into the request context.
func AuthnMiddleware(v SessionVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.VerifyAccessToken(ctx, raw)
			if err != nil {
				log.Warn("bearer token rejected", "err", err)
				writeBearerError(w, "token verification failed")
				return
			}

			ctx = context.WithValue(ctx, CtxKeyUserID, claims.Subject)
			ctx = context.WithValue(ctx, CtxKeyClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	w.WriteHeader(http.StatusUnauthorized)
}
