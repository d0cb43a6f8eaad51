package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/lberndt/gatehouse/internal/register/service"
	"github.com/lberndt/gatehouse/internal/register/store"
	"github.com/lberndt/gatehouse/pkg/httpx"
	"github.com/lberndt/gatehouse/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	Sessions     *service.SessionService
	Success      *service.SuccessService
	Invites      *service.InviteService
	Admins       *service.AdminService
	Registration *service.RegistrationFlow
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerRegistration()
	r.registerAdmin()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerRegistration() {
	registerHandler := &RegisterHandler{Registration: r.Registration}

	// GET /register - lenient rate limit (token check for the form view)
	r.Mux.Handle("GET /register",
		httpx.Chain(http.HandlerFunc(registerHandler.HandleCheck),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// POST /register - strict rate limit by IP (public redemption endpoint)
	r.Mux.Handle("POST /register",
		httpx.Chain(http.HandlerFunc(registerHandler.HandleRedeem),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// GET /success - moderate rate limit (short-lived token gate)
	r.Mux.Handle("GET /success",
		httpx.Chain(&SuccessHandler{Success: r.Success},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerAdmin() {
	loginHandler := &LoginHandler{Admins: r.Admins, Sessions: r.Sessions}
	tokensHandler := &AdminTokensHandler{Invites: r.Invites}

	// GET /admin/login - session status probe, lenient
	r.Mux.Handle("GET /admin/login",
		httpx.Chain(http.HandlerFunc(loginHandler.HandleStatus),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// POST /admin/login - strict rate limit by IP + username to slow brute force
	r.Mux.Handle("POST /admin/login",
		httpx.Chain(http.HandlerFunc(loginHandler.HandleLogin),
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "username"),
		),
	)

	r.Mux.Handle("GET /admin/logout",
		httpx.Chain(LogoutHandler{},
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// Token management - session-protected, moderate limits
	r.Mux.Handle("GET /admin/tokens",
		httpx.Chain(http.HandlerFunc(tokensHandler.HandleList),
			RequireSession(r.Sessions),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /admin/tokens",
		httpx.Chain(http.HandlerFunc(tokensHandler.HandleMint),
			RequireSession(r.Sessions),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /admin/tokens/{id}",
		httpx.Chain(http.HandlerFunc(tokensHandler.HandleDelete),
			RequireSession(r.Sessions),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /admin/password - strict: it handles the raw credential
	r.Mux.Handle("POST /admin/password",
		httpx.Chain(&PasswordHandler{Admins: r.Admins},
			RequireSession(r.Sessions),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient (monitoring systems poll frequently)
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
