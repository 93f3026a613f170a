package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/firmetra/signauth/internal/auth/service"
	"github.com/firmetra/signauth/pkg/httpx"
	"github.com/firmetra/signauth/pkg/slogx"
)

// RefreshHandler serves POST /refresh. Each refresh token is single-use:
// the response carries a new pair and the presented token is spent.
type RefreshHandler struct {
	Sessions *service.SessionService
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}
	if req.RefreshToken == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "refresh_token is required")
		return
	}

	pair, err := h.Sessions.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefresh) {
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_refresh_token", "refresh token is invalid, expired or spent")
			return
		}
		log.Error("refresh failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "refresh failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, pair)
}
