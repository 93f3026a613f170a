package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/firmetra/signauth/internal/auth/service"
	"github.com/firmetra/signauth/internal/auth/store"
	"github.com/firmetra/signauth/pkg/esign"
	"github.com/firmetra/signauth/pkg/httpx"
	"github.com/firmetra/signauth/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	AuthService      *service.AuthService
	SessionService   *service.SessionService
	ConnectService   *service.ConnectService
	WebhookValidator *esign.WebhookValidator
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerDocuSign()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /register - strict rate limit (account creation abuse)
	registerHandler := &RegisterHandler{Credentials: r.AuthService.Credentials}
	r.Mux.Handle("POST /register",
		httpx.Chain(registerHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /login - strict rate limit per IP on top of the per-username
	// lockout the service enforces
	loginHandler := &LoginHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /refresh - moderate rate limit (token grant endpoint)
	refreshHandler := &RefreshHandler{Sessions: r.SessionService}
	r.Mux.Handle("POST /refresh",
		httpx.Chain(refreshHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /logout - moderate rate limit
	logoutHandler := &LogoutHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /logout",
		httpx.Chain(logoutHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerDocuSign() {
	connectHandler := &ConnectHandler{ConnectService: r.ConnectService}

	// Both legs of the consent flow require a valid session: the
	// challenge is keyed by the authenticated user.
	r.Mux.Handle("GET /docusign/auth",
		httpx.Chain(http.HandlerFunc(connectHandler.HandleAuth),
			httpx.AuthnMiddleware(r.SessionService),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /docusign/callback",
		httpx.Chain(http.HandlerFunc(connectHandler.HandleCallback),
			httpx.AuthnMiddleware(r.SessionService),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// Webhook authenticates by HMAC signature, not by session.
	webhookHandler := &WebhookHandler{Validator: r.WebhookValidator}
	r.Mux.Handle("POST /docusign/webhook",
		httpx.Chain(webhookHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
