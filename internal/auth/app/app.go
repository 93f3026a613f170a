package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/firmetra/signauth/internal/auth/http"
	"github.com/firmetra/signauth/internal/auth/service"
	"github.com/firmetra/signauth/internal/auth/store"
	"github.com/firmetra/signauth/internal/auth/store/drivers/sqlite"
	"github.com/firmetra/signauth/pkg/esign"
	"github.com/firmetra/signauth/pkg/jwtx"
	"github.com/firmetra/signauth/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	provider *esign.Client

	authService         *service.AuthService
	sessionService      *service.SessionService
	connectService      *service.ConnectService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "signauth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initProvider(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("signauth starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down signauth...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("signauth stopped")
	return nil
}

func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initProvider() error {
	app.provider = esign.NewClient(
		app.cfg.DocuSignAuthBaseURL,
		app.cfg.DocuSignIntegration,
		app.cfg.DocuSignClientSecret,
		app.cfg.DocuSignRedirectURI,
	)
	if err := app.provider.Validate(); err != nil {
		return fmt.Errorf("provider configuration rejected: %w", err)
	}
	return nil
}

func (app *Application) initServices() error {
	signer, err := jwtx.NewHS256([]byte(app.cfg.SigningKey), app.cfg.Issuer)
	if err != nil {
		return fmt.Errorf("failed to initialize token signer: %w", err)
	}

	app.sessionService = &service.SessionService{
		Signer:     signer,
		Store:      app.db,
		Issuer:     app.cfg.Issuer,
		AccessTTL:  app.cfg.AccessTokenTTL,
		RefreshTTL: app.cfg.RefreshTokenTTL,
	}

	app.authService = &service.AuthService{
		Credentials: &service.CredentialService{Store: app.db},
		Sessions:    app.sessionService,
		Guard: &service.LoginGuard{
			Store:       app.db,
			MaxAttempts: app.cfg.MaxLoginAttempts,
			Window:      app.cfg.LockoutWindow,
		},
	}

	app.connectService = &service.ConnectService{
		Challenges: &service.ChallengeService{
			Store: app.db,
			TTL:   app.cfg.ChallengeTTL,
		},
		Provider: app.provider,
		Store:    app.db,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
	if app.cfg.ChallengeTTL > 0 {
		app.housekeepingService.ChallengeTTL = app.cfg.ChallengeTTL
	}
	if app.cfg.LockoutWindow > 0 {
		app.housekeepingService.AttemptTTL = app.cfg.LockoutWindow
	}

	return nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)

	router.AuthService = app.authService
	router.SessionService = app.sessionService
	router.ConnectService = app.connectService
	router.WebhookValidator = esign.NewWebhookValidator([]byte(app.cfg.DocuSignWebhookSecret))
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
