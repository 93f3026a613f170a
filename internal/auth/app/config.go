package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/firmetra/signauth/pkg/jwtx"
)

type Config struct {
	Issuer     string // Optional: issuer claim for session tokens (default: signauth)
	SigningKey string // Required: HS256 signing key, at least 32 bytes

	DocuSignAuthBaseURL   string // Optional: provider auth server (default: demo environment)
	DocuSignIntegration   string // Required: integration key (OAuth client_id)
	DocuSignClientSecret  string // Required: OAuth client secret
	DocuSignRedirectURI   string // Required: registered callback URI
	DocuSignWebhookSecret string // Required: HMAC key for webhook verification

	AccessTokenTTL  time.Duration // Optional: access token lifetime (default: 1h)
	RefreshTokenTTL time.Duration // Optional: refresh token lifetime (default: 30 days)
	ChallengeTTL    time.Duration // Optional: pending consent flow lifetime (default: 10m)

	MaxLoginAttempts int           // Optional: failures before lockout (default: 3)
	LockoutWindow    time.Duration // Optional: lockout duration (default: 5m)

	DatabaseFile         string        // Optional: path to SQLite database file (default: ./signauth.db)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		Issuer:     getEnvOrDefault("SIGNAUTH_ISSUER", "signauth"),
		SigningKey: os.Getenv("SIGNAUTH_SIGNING_KEY"),

		DocuSignAuthBaseURL:   getEnvOrDefault("DOCUSIGN_AUTH_BASE_URL", "https://account-d.docusign.com"),
		DocuSignIntegration:   os.Getenv("DOCUSIGN_INTEGRATION_KEY"),
		DocuSignClientSecret:  os.Getenv("DOCUSIGN_CLIENT_SECRET"),
		DocuSignRedirectURI:   os.Getenv("DOCUSIGN_REDIRECT_URI"),
		DocuSignWebhookSecret: os.Getenv("DOCUSIGN_HMAC_KEY"),

		AccessTokenTTL:  getEnvDurationOrDefault("SIGNAUTH_ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTokenTTL: getEnvDurationOrDefault("SIGNAUTH_REFRESH_TOKEN_TTL", jwtx.DefaultRefreshTokenTTL),
		ChallengeTTL:    getEnvDurationOrDefault("SIGNAUTH_CHALLENGE_TTL", 10*time.Minute),

		MaxLoginAttempts: getEnvIntOrDefault("MAX_LOGIN_ATTEMPTS", 3),
		LockoutWindow:    getEnvDurationOrDefault("LOGIN_LOCKOUT_WINDOW", 5*time.Minute),

		DatabaseFile:         getEnvOrDefault("SIGNAUTH_DATABASE_FILE", "signauth.db"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

// Validate fails fast on missing or placeholder settings so the service
// refuses to boot half-configured rather than failing mid-flow.
func (cfg Config) Validate() error {
	var errs []error

	if len(cfg.SigningKey) < 32 {
		errs = append(errs, errors.New("SIGNAUTH_SIGNING_KEY must be set to at least 32 bytes"))
	}

	required := map[string]string{
		"DOCUSIGN_INTEGRATION_KEY": cfg.DocuSignIntegration,
		"DOCUSIGN_CLIENT_SECRET":   cfg.DocuSignClientSecret,
		"DOCUSIGN_REDIRECT_URI":    cfg.DocuSignRedirectURI,
		"DOCUSIGN_HMAC_KEY":        cfg.DocuSignWebhookSecret,
	}
	for name, value := range required {
		// A value equal to its own setting name is a template that was
		// never filled in.
		if value == "" || value == name {
			errs = append(errs, fmt.Errorf("%s must be configured", name))
		}
	}

	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
