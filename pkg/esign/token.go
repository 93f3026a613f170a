package esign

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TokenSet is the provider's token endpoint response.
type TokenSet struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"` // seconds
}

// ExpiresAt converts the relative expiry into an absolute instant measured
// from now.
func (t *TokenSet) ExpiresAt(now time.Time) time.Time {
	return now.Add(time.Duration(t.ExpiresIn) * time.Second)
}

// ExchangeCode swaps an authorization code and its PKCE verifier for a token
// set. The redirect URI sent must match the one used on the consent request.
func (c *Client) ExchangeCode(ctx context.Context, code, verifier string) (*TokenSet, error) {
	data := url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"code_verifier": {verifier},
		"client_id":     {c.IntegrationKey},
		"client_secret": {c.ClientSecret},
		"redirect_uri":  {c.RedirectURI},
	}

	return c.requestToken(ctx, data)
}

// Refresh renews a token set from its refresh token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenSet, error) {
	data := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
		"client_id":     {c.IntegrationKey},
		"client_secret": {c.ClientSecret},
	}

	return c.requestToken(ctx, data)
}

func (c *Client) requestToken(ctx context.Context, data url.Values) (*TokenSet, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.AuthBaseURL+"/oauth/token",
		strings.NewReader(data.Encode()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		// Timeouts and transport failures are both retry-the-flow territory.
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, redactURLError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: provider returned %d", ErrUnavailable, resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		grantErr := &GrantError{StatusCode: resp.StatusCode}
		var parsed struct {
			Code        string `json:"error"`
			Description string `json:"error_description"`
		}
		if json.Unmarshal(body, &parsed) == nil {
			grantErr.Code = parsed.Code
			grantErr.Description = parsed.Description
		}
		return nil, grantErr
	}

	var tokens TokenSet
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return nil, fmt.Errorf("%w: malformed token response", ErrUnavailable)
	}
	if tokens.AccessToken == "" {
		return nil, fmt.Errorf("%w: token response missing access_token", ErrUnavailable)
	}

	return &tokens, nil
}

// redactURLError strips the request URL's query from transport errors so
// form-encoded secrets never reach a log line.
func redactURLError(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Sprintf("%s request failed: %v", urlErr.Op, urlErr.Err)
	}
	return err.Error()
}
