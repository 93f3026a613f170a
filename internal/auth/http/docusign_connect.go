package http

import (
	"errors"
	"net/http"

	"github.com/firmetra/signauth/internal/auth/service"
	"github.com/firmetra/signauth/pkg/esign"
	"github.com/firmetra/signauth/pkg/httpx"
	"github.com/firmetra/signauth/pkg/slogx"
)

// ConnectHandler serves the two legs of the DocuSign consent flow:
// GET /docusign/auth starts it, GET /docusign/callback completes it.
type ConnectHandler struct {
	ConnectService *service.ConnectService
}

// HandleAuth mints a fresh PKCE challenge for the caller's session and
// redirects to the provider's consent page.
func (h *ConnectHandler) HandleAuth(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	userID := httpx.UserIDFromContext(r.Context())
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "no authenticated session")
		return
	}

	consentURL, err := h.ConnectService.BeginAuth(r.Context(), userID)
	if err != nil {
		log.Error("failed to start consent flow", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "could not start authorization")
		return
	}

	httpx.NoCache(w)
	http.Redirect(w, r, consentURL, http.StatusFound)
}

// HandleCallback completes the flow with the code and state the provider
// echoed back.
func (h *ConnectHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	userID := httpx.UserIDFromContext(r.Context())
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "no authenticated session")
		return
	}

	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "code and state are required")
		return
	}

	tokens, err := h.ConnectService.HandleCallback(r.Context(), userID, code, state)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChallengeMissing):
			httpx.WriteError(w, http.StatusBadRequest, "challenge_missing", "no pending authorization for this session")
		case errors.Is(err, service.ErrChallengeExpired):
			httpx.WriteError(w, http.StatusBadRequest, "challenge_expired", "authorization flow timed out, start again")
		case errors.Is(err, service.ErrStateMismatch):
			httpx.WriteError(w, http.StatusBadRequest, "state_mismatch", "state does not match the pending authorization")
		case errors.Is(err, esign.ErrValidation):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_grant", "the provider rejected the authorization code")
		case errors.Is(err, esign.ErrUnavailable):
			httpx.WriteError(w, http.StatusBadGateway, "provider_unavailable", "the provider could not be reached")
		default:
			log.Error("callback handling failed", "error", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "authorization could not be completed")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, tokens)
}
