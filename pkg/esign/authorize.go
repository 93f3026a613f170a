package esign

import (
	"net/url"
)

// DefaultScope is the provider scope needed to send envelopes on the user's
// behalf.
const DefaultScope = "signature"

// AuthorizationURL composes the provider consent URL for the
// authorization-code-with-PKCE flow. challenge is the S256 code challenge and
// state the anti-CSRF token, both produced when the flow began.
func (c *Client) AuthorizationURL(challenge, state, scope string) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	if scope == "" {
		scope = DefaultScope
	}

	params := url.Values{
		"response_type":         {"code"},
		"scope":                 {scope},
		"client_id":             {c.IntegrationKey},
		"redirect_uri":          {c.RedirectURI},
		"state":                 {state},
		"code_challenge":        {challenge},
		"code_challenge_method": {"S256"},
	}

	return c.AuthBaseURL + "/oauth/auth?" + params.Encode(), nil
}
