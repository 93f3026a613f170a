package esign

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// Webhook signature headers sent by the provider's event notification
// service (DocuSign Connect).
const (
	SignatureHeader = "X-DocuSign-Signature-1"
	TimestampHeader = "X-DocuSign-Signature-Timestamp"
)

// WebhookValidator verifies inbound webhook authenticity with the shared
// HMAC key configured on the provider side.
type WebhookValidator struct {
	key []byte
}

func NewWebhookValidator(key []byte) *WebhookValidator {
	return &WebhookValidator{key: key}
}

// Validate checks the signature header against HMAC-SHA256 of the raw body.
// When the provider includes a timestamp header the signed message is
// "timestamp\nbody\n"; otherwise it is the body alone. The comparison is
// constant-time. A missing signature is ErrSignatureInvalid, never a skip.
//
// This must run before the payload is deserialized or acted on.
func (v *WebhookValidator) Validate(body []byte, signature, timestamp string) error {
	if signature == "" {
		return ErrSignatureInvalid
	}

	expected := ComputeSignature(v.key, body, timestamp)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrSignatureInvalid
	}
	return nil
}

// ComputeSignature returns the base64 HMAC-SHA256 the provider would send
// for the given body and optional timestamp. Exported for tests and for
// signing outbound simulation payloads.
func ComputeSignature(key, body []byte, timestamp string) string {
	mac := hmac.New(sha256.New, key)
	if timestamp != "" {
		mac.Write([]byte(timestamp))
		mac.Write([]byte("\n"))
		mac.Write(body)
		mac.Write([]byte("\n"))
	} else {
		mac.Write(body)
	}
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// WebhookEvent is the subset of the provider's event payload the auth core
// cares about: enough to route and log the notification.
type WebhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		AccountID  string `json:"accountId"`
		EnvelopeID string `json:"envelopeId"`
	} `json:"data"`
}

// KnownEvents are the envelope lifecycle notifications this backend reacts
// to. Others are acknowledged but only logged.
var KnownEvents = map[string]struct{}{
	"envelope-sent":       {},
	"envelope-delivered":  {},
	"envelope-completed":  {},
	"envelope-declined":   {},
	"envelope-voided":     {},
	"recipient-completed": {},
}
