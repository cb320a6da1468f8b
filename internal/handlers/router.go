package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appMiddleware "github.com/rewear/backend/internal/middleware"
)

type RouterConfig struct {
	AllowedOrigins  []string
	RateLimitPerMin int
	Logger          *zap.Logger
}

// NewRouter mounts every route on a chi router with the global middleware stack.
func NewRouter(cfg RouterConfig, listings *ListingHandler, diagnostics *DiagnosticsHandler) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(appMiddleware.Logger(cfg.Logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(appMiddleware.RateLimit(cfg.RateLimitPerMin))

	r.Get("/", diagnostics.Root)
	r.Get("/health", diagnostics.Health)
	r.Get("/test", diagnostics.Test)

	r.Route("/api", func(r chi.Router) {
		r.Get("/listings", listings.ListListings)
		r.Post("/listings", listings.CreateListing)
	})

	return r
}
