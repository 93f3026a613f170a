package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/firmetra/signauth/pkg/esign"
	"github.com/firmetra/signauth/pkg/httpx"
	"github.com/firmetra/signauth/pkg/slogx"
)

// maxWebhookBody caps how much of a webhook payload gets read (1 MiB).
const maxWebhookBody = 1 << 20

// WebhookHandler serves POST /docusign/webhook. The HMAC signature check
// runs against the raw body before anything is parsed; an unsigned or
// tampered request never reaches the decoder.
type WebhookHandler struct {
	Validator *esign.WebhookValidator
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "could not read request body")
		return
	}

	signature := r.Header.Get(esign.SignatureHeader)
	timestamp := r.Header.Get(esign.TimestampHeader)

	if err := h.Validator.Validate(body, signature, timestamp); err != nil {
		log.Warn("webhook signature rejected")
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_signature", "webhook signature verification failed")
		return
	}

	var event esign.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		// Authenticated but unparseable: acknowledge so the provider
		// does not retry a payload we will never understand.
		log.Warn("webhook payload not decodable", "error", err)
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	if _, known := esign.KnownEvents[event.Event]; !known {
		log.Warn("unrecognized webhook event", "event", event.Event)
	} else {
		log.Info("webhook event received",
			"event", event.Event,
			"envelope_id", event.Data.EnvelopeID,
			"account_id", event.Data.AccountID,
		)
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "received"})
}
