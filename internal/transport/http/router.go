package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/travel-atlas/internal/application/destination"
	"github.com/travel-atlas/internal/application/verification"
	"github.com/travel-atlas/internal/config"
	"github.com/travel-atlas/internal/transport/http/handler"
	appmiddleware "github.com/travel-atlas/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10, on the public credential and code endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10).TrustProxyHeaders(cfg.TrustProxyHeaders)

	verificationSvc := verification.NewService(verification.ServiceDeps{
		AccountRepo: deps.AccountRepo,
		Auth:        deps.Auth,
		Notifier:    deps.Notifier,
		Limiter:     deps.Limiter,
		CodeTTL:     cfg.OTPTTL,
	})
	destinationSvc := destination.NewService(deps.DestinationRepo)

	healthH := handler.NewHealthHandler()
	accountH := handler.NewAccountHandler(verificationSvc, cfg.Development())
	sessionH := handler.NewSessionHandler(verificationSvc)
	destinationH := handler.NewDestinationHandler(destinationSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.Get("/destinations/{country}", destinationH.Get)

		r.Group(func(r chi.Router) {
			r.Use(sensitiveRL.Limit)

			r.Post("/accounts", accountH.Register)
			r.Post("/accounts/verify", accountH.Verify)
			r.Post("/accounts/resend", accountH.Resend)
			r.Post("/sessions/login", sessionH.Login)
		})

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.Auth(deps.Auth))

			r.Get("/sessions", sessionH.GetCurrent)
			r.Post("/sessions/logout", sessionH.Logout)
		})
	})

	return r
}
