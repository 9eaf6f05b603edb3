package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/finepay/internal/fines/metrics"
	"github.com/aussiebroadwan/finepay/internal/fines/service"
	"github.com/aussiebroadwan/finepay/internal/fines/store"
	"github.com/aussiebroadwan/finepay/pkg/httpx"
	"github.com/aussiebroadwan/finepay/pkg/jwtx"
	"github.com/aussiebroadwan/finepay/pkg/payfast"
	"github.com/aussiebroadwan/finepay/pkg/slogx"

	_ "github.com/aussiebroadwan/finepay/api/fines" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	signer       jwtx.Signer
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	Metrics        *metrics.Metrics
	CachePing      func(context.Context) error // nil when no cache is configured
	Gateway        *payfast.Gateway
	FineService    *service.FineService
	UserService    *service.UserService
	PaymentService *service.PaymentService
}

func NewRouter(
	signer jwtx.Signer,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		signer:       signer,
		verifier:     verifier,
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
	r.registerFines()
	r.registerUsers()
	r.registerMe()
	r.registerPayments()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Finepay Traffic Fine API
//	@version		0.1.0
//	@description	Search South African traffic fines, manage a driver profile and pay fines through PayFast.
//	@description
//	@description				Access tokens are Ed25519 signed JWTs returned from registration and sign in.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/finepay
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// handle registers h under pattern behind mws and records its latency with
// the pattern as the route label.
func (r *Router) handle(pattern string, h http.Handler, mws ...httpx.Middleware) {
	r.Mux.Handle(pattern, r.instrument(pattern, httpx.Chain(h, mws...)))
}

func (r *Router) registerFines() {
	h := &FinesHandler{FineService: r.FineService}

	// Search is the public front door - public limit by IP
	r.handle("GET /v1/fines", http.HandlerFunc(h.HandleSearch),
		httpx.RateLimitByIP(httpx.PublicLimit),
	)
	r.handle("GET /v1/fines/{id}", http.HandlerFunc(h.HandleGet),
		httpx.RateLimitByIP(httpx.PublicLimit),
	)
	r.handle("GET /v1/municipalities", http.HandlerFunc(h.HandleMunicipalities),
		httpx.RateLimitByIP(httpx.PublicLimit),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	// POST /users - strict rate limit by IP (public signup endpoint)
	r.handle("POST /v1/users", http.HandlerFunc(h.HandleRegister),
		httpx.RateLimitByIP(httpx.StrictLimit),
	)

	// POST /sessions - strict rate limit by IP + email to slow credential stuffing
	r.handle("POST /v1/sessions", http.HandlerFunc(h.HandleLogin),
		httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"),
	)
}

func (r *Router) registerMe() {
	h := &MeHandler{UserService: r.UserService, FineService: r.FineService}

	// Authenticate first so the per-user limiter sees the user id.
	secured := func(limit httpx.RateLimitConfig) []httpx.Middleware {
		return []httpx.Middleware{
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(limit),
		}
	}

	r.handle("GET /v1/me", http.HandlerFunc(h.HandleGet), secured(httpx.LenientLimit)...)
	r.handle("PATCH /v1/me", http.HandlerFunc(h.HandleUpdate), secured(httpx.ModerateLimit)...)
	r.handle("GET /v1/me/fines", http.HandlerFunc(h.HandleFines), secured(httpx.LenientLimit)...)
	r.handle("GET /v1/me/payments", http.HandlerFunc(h.HandlePayments), secured(httpx.LenientLimit)...)
	r.handle("GET /v1/me/dashboard", http.HandlerFunc(h.HandleDashboard), secured(httpx.LenientLimit)...)
	r.handle("POST /v1/me/vehicles", http.HandlerFunc(h.HandleAddVehicle), secured(httpx.ModerateLimit)...)
	r.handle("DELETE /v1/me/vehicles/{id}", http.HandlerFunc(h.HandleRemoveVehicle), secured(httpx.ModerateLimit)...)
}

func (r *Router) registerPayments() {
	h := &PaymentsHandler{
		PaymentService: r.PaymentService,
		FineService:    r.FineService,
		Gateway:        r.Gateway,
	}

	// Anyone may pay a fine; a valid token links the payment to the account.
	r.handle("POST /v1/payments", http.HandlerFunc(h.HandleInitiate),
		httpx.OptionalAuthnMiddleware(r.verifier),
		httpx.RateLimitByIP(httpx.ModerateLimit),
	)

	// Gateway callbacks and return pages
	r.handle("POST /payment/notify/{fineId}", http.HandlerFunc(h.HandleNotify),
		httpx.RateLimitByIP(httpx.PublicLimit),
	)
	r.handle("GET /payment/{fineId}/success", http.HandlerFunc(h.HandleSuccess),
		httpx.RateLimitByIP(httpx.LenientLimit),
	)
	r.handle("GET /payment/{fineId}/cancel", http.HandlerFunc(h.HandleCancel),
		httpx.RateLimitByIP(httpx.LenientLimit),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.signer, r.CachePing),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	if r.Metrics != nil {
		r.Mux.Handle("GET /metrics", r.Metrics.Handler())
	}
}
