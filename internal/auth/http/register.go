package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/firmetra/signauth/internal/auth/service"
	"github.com/firmetra/signauth/pkg/httpx"
	"github.com/firmetra/signauth/pkg/slogx"
)

// RegisterHandler serves POST /register.
type RegisterHandler struct {
	Credentials *service.CredentialService
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	user, err := h.Credentials.Create(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateIdentity):
			httpx.WriteError(w, http.StatusConflict, "duplicate_identity", "username or email already registered")
		case errors.Is(err, service.ErrWeakPassword):
			httpx.WriteError(w, http.StatusBadRequest, "weak_password", "password does not meet the minimum length")
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "username and email are required")
		default:
			log.Error("registration failed", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "registration failed")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, registerResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}
