package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/firmetra/signauth/internal/auth/service"
	"github.com/firmetra/signauth/pkg/httpx"
	"github.com/firmetra/signauth/pkg/slogx"
)

// LoginHandler serves POST /login.
type LoginHandler struct {
	AuthService *service.AuthService
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	pair, err := h.AuthService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			// One response shape for unknown user and wrong password.
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
		case errors.Is(err, service.ErrAccountLocked):
			w.Header().Set("Retry-After", "300")
			httpx.WriteError(w, http.StatusTooManyRequests, "account_locked", "too many failed attempts, try again later")
		default:
			log.Error("login failed", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "login failed")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, pair)
}
