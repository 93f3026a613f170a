package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Issuer:                "signauth",
		SigningKey:            "0123456789abcdef0123456789abcdef",
		DocuSignAuthBaseURL:   "https://account-d.docusign.com",
		DocuSignIntegration:   "integration-key",
		DocuSignClientSecret:  "client-secret",
		DocuSignRedirectURI:   "https://app.example.com/docusign/callback",
		DocuSignWebhookSecret: "webhook-secret",
		DatabaseFile:          "signauth.db",
		Port:                  8080,
		ShutdownGracePeriod:   10 * time.Second,
	}
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestConfigValidate_MissingSigningKey(t *testing.T) {
	cfg := validConfig()
	cfg.SigningKey = ""
	require.Error(t, cfg.Validate())
}

func TestConfigValidate_ShortSigningKey(t *testing.T) {
	cfg := validConfig()
	cfg.SigningKey = "too-short"
	require.Error(t, cfg.Validate())
}

func TestConfigValidate_PlaceholderValues(t *testing.T) {
	// A setting left equal to its own name is an unfilled template.
	cfg := validConfig()
	cfg.DocuSignIntegration = "DOCUSIGN_INTEGRATION_KEY"
	require.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.DocuSignClientSecret = "DOCUSIGN_CLIENT_SECRET"
	require.Error(t, cfg.Validate())
}

func TestConfigValidate_MissingWebhookSecret(t *testing.T) {
	cfg := validConfig()
	cfg.DocuSignWebhookSecret = ""
	require.Error(t, cfg.Validate())
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()
	require.Equal(t, "signauth", cfg.Issuer)
	require.Equal(t, "https://account-d.docusign.com", cfg.DocuSignAuthBaseURL)
	require.Equal(t, 3, cfg.MaxLoginAttempts)
	require.Equal(t, 5*time.Minute, cfg.LockoutWindow)
	require.Equal(t, 10*time.Minute, cfg.ChallengeTTL)
	require.Equal(t, 8080, cfg.Port)
}
