// Package server assembles the HTTP handler: middleware, health and metrics
// endpoints, and the users/listings/saved routes.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/diewo77/listings-api/httpx"
	"github.com/diewo77/listings-api/internal/events"
	"github.com/diewo77/listings-api/internal/handlers"
	"github.com/diewo77/listings-api/internal/media"
	"github.com/diewo77/listings-api/internal/metrics"
	"github.com/diewo77/listings-api/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// Deps is everything the router needs. Events and Images may be nil.
type Deps struct {
	Store          *store.Store
	Events         events.Publisher
	Images         media.ImageStore
	Metrics        *metrics.Metrics
	Logger         *zap.Logger
	AllowedOrigins []string
}

// New constructs the root http.Handler with all routes and middlewares applied.
func New(d Deps) http.Handler {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	m := d.Metrics
	if m == nil {
		m = metrics.New()
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.StripSlashes)
	r.Use(withLogging(log))
	r.Use(withRecover(log))
	r.Use(withMetrics(m))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := d.Store.Ping(ctx); err != nil {
			log.Warn("health check failed", zap.Error(err))
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/users", handlers.NewUserHandler(d.Store, m, log).Register)
	r.Route("/listings", handlers.NewListingHandler(d.Store, d.Events, d.Images, m, log).Register)
	r.Route("/saved", handlers.NewSavedHandler(d.Store, d.Events, m, log).Register)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSONError(w, http.StatusNotFound, "Not Found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
	})

	return corsHandler(d.AllowedOrigins).Handler(r)
}

func corsHandler(origins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
	})
}
