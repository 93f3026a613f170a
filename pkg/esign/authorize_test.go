package esign

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func testClient() *Client {
	return NewClient(
		"https://account-d.docusign.com",
		"integration-key-123",
		"secret-456",
		"https://app.example.com/docusign/callback",
	)
}

func TestAuthorizationURL(t *testing.T) {
	c := testClient()

	raw, err := c.AuthorizationURL("the-challenge", "the-state", "")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "account-d.docusign.com", u.Host)
	require.Equal(t, "/oauth/auth", u.Path)

	q := u.Query()
	require.Equal(t, "code", q.Get("response_type"))
	require.Equal(t, "integration-key-123", q.Get("client_id"))
	require.Equal(t, "https://app.example.com/docusign/callback", q.Get("redirect_uri"))
	require.Equal(t, DefaultScope, q.Get("scope"))
	require.Equal(t, "the-state", q.Get("state"))
	require.Equal(t, "the-challenge", q.Get("code_challenge"))
	require.Equal(t, "S256", q.Get("code_challenge_method"))
}

func TestAuthorizationURL_CustomScope(t *testing.T) {
	c := testClient()

	raw, err := c.AuthorizationURL("c", "s", "signature impersonation")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "signature impersonation", u.Query().Get("scope"))
}

func TestValidate_RejectsPlaceholders(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Client)
	}{
		{"empty integration key", func(c *Client) { c.IntegrationKey = "" }},
		{"placeholder integration key", func(c *Client) { c.IntegrationKey = "DOCUSIGN_INTEGRATION_KEY" }},
		{"empty secret", func(c *Client) { c.ClientSecret = "" }},
		{"placeholder secret", func(c *Client) { c.ClientSecret = "DOCUSIGN_CLIENT_SECRET" }},
		{"empty redirect", func(c *Client) { c.RedirectURI = "" }},
		{"base url without scheme", func(c *Client) { c.AuthBaseURL = "account-d.docusign.com" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClient()
			tt.mutate(c)

			require.ErrorIs(t, c.Validate(), ErrConfiguration)

			_, err := c.AuthorizationURL("c", "s", "")
			require.ErrorIs(t, err, ErrConfiguration)
		})
	}
}
