package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"modulos/pricing/internal/infra"
	"modulos/pricing/internal/services"
)

// Services are the collaborators the HTTP layer delegates to
type Services struct {
	Quotes   *services.QuoteService
	Sessions *services.SessionService
	Verifier services.CredentialVerifier
	Guard    *services.LoginGuard
}

// Router sets up the HTTP router with all routes and middleware
func Router(logger *zap.Logger, config *infra.Config, svc Services) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: true, // session cookie
		MaxAge:           300,
	}))

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(loggingMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(SessionMiddleware(svc.Sessions, logger))

	handlers := NewHandlers(logger, svc.Quotes)
	authHandlers := NewAuthHandlers(logger, svc.Sessions, svc.Verifier, svc.Guard)

	// Public
	r.Get("/health", handlers.HealthCheck)
	r.Get("/api/tiers", handlers.ListTiers)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", authHandlers.Login)
		r.Get("/session", authHandlers.Session)
		r.Post("/logout", authHandlers.Logout)
	})

	// Calculator routes - password gate required
	r.Route("/api/quote", func(r chi.Router) {
		r.Use(RequireSession(logger))

		r.Get("/", handlers.GetQuote)
		r.Post("/", handlers.PostQuote)
		r.Get("/compare", handlers.GetComparison)
		r.Get("/chart", handlers.GetChart)
	})

	return r
}
