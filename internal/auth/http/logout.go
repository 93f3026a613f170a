package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/firmetra/signauth/internal/auth/service"
	"github.com/firmetra/signauth/pkg/httpx"
	"github.com/firmetra/signauth/pkg/slogx"
)

// LogoutHandler serves POST /logout. The bearer token itself is the thing
// being revoked, so the handler reads the Authorization header directly
// instead of going through the authn middleware.
type LogoutHandler struct {
	AuthService *service.AuthService
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	authz := r.Header.Get("Authorization")
	if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "missing bearer token")
		return
	}
	token := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

	if err := h.AuthService.Logout(r.Context(), token); err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "token verification failed")
			return
		}
		log.Error("logout failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "logout failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}
