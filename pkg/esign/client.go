// Package esign is a minimal client for the e-signature provider's OAuth2
// surface: building consent URLs, exchanging authorization codes (PKCE),
// refreshing tokens, and verifying webhook signatures. The provider's
// business API (envelopes, signing) is intentionally not covered here.
package esign

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds every outbound call to the provider. An unresponsive
// provider must never hold a caller's request open indefinitely.
const DefaultTimeout = 10 * time.Second

// Client talks to the provider's account server (e.g. account-d.docusign.com
// for the DocuSign sandbox, account.docusign.com for production).
type Client struct {
	// AuthBaseURL is the provider account server base URL, scheme included.
	AuthBaseURL string

	// IntegrationKey is the OAuth2 client_id issued by the provider.
	IntegrationKey string

	// ClientSecret is the OAuth2 client_secret. Never logged.
	ClientSecret string

	// RedirectURI must exactly match the value registered with the provider.
	RedirectURI string

	HTTPClient *http.Client
}

// NewClient creates a provider client with the default outbound timeout.
func NewClient(authBaseURL, integrationKey, clientSecret, redirectURI string) *Client {
	return &Client{
		AuthBaseURL:    strings.TrimSuffix(authBaseURL, "/"),
		IntegrationKey: integrationKey,
		ClientSecret:   clientSecret,
		RedirectURI:    redirectURI,
		HTTPClient:     &http.Client{Timeout: DefaultTimeout},
	}
}

// Validate fails fast on missing or placeholder configuration, before any
// request-time code depends on it. A value equal to its own setting name is
// the classic copy-the-example-config mistake and is treated as unset.
func (c *Client) Validate() error {
	checks := []struct {
		name  string
		value string
	}{
		{"DOCUSIGN_AUTH_BASE_URL", c.AuthBaseURL},
		{"DOCUSIGN_INTEGRATION_KEY", c.IntegrationKey},
		{"DOCUSIGN_CLIENT_SECRET", c.ClientSecret},
		{"DOCUSIGN_REDIRECT_URI", c.RedirectURI},
	}
	for _, check := range checks {
		if check.value == "" || check.value == check.name {
			return fmt.Errorf("%w: %s is not configured", ErrConfiguration, check.name)
		}
	}
	if !strings.HasPrefix(c.AuthBaseURL, "https://") && !strings.HasPrefix(c.AuthBaseURL, "http://") {
		return fmt.Errorf("%w: DOCUSIGN_AUTH_BASE_URL must include a scheme", ErrConfiguration)
	}
	return nil
}
