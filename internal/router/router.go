package router

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mw "github.com/LadislavMokry/A11-Moodboard-sub000/internal/middleware"
	"github.com/LadislavMokry/A11-Moodboard-sub000/internal/middleware/metrics"
	rl "github.com/LadislavMokry/A11-Moodboard-sub000/internal/middleware/ratelimiter"
	"github.com/LadislavMokry/A11-Moodboard-sub000/internal/setup"
)

// New creates and configures the chi router with all routes.
func New(deps *setup.Dependencies) chi.Router {
	r := chi.NewRouter()

	r.Use(metrics.Middleware)

	allowedOrigins := []string{"http://localhost:5173"}
	if origin := deps.Config.Public.AllowedOrigin; origin != "" {
		allowedOrigins = []string{origin}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	h := deps.Handler

	r.Get("/healthz", h.Health)
	r.Get("/readyz", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/public_config", h.GetPublicConfig)

		r.Group(func(r chi.Router) {
			r.Use(deps.AuthMiddleware.NeedAuth())
			// Transfers fan out into up to max_batch_size downloads and
			// uploads each, so keep per-user request rates modest.
			r.Use(mw.RateLimit(rl.New(1, 3, time.Hour), mw.ByUserID))
			r.Post("/images/transfer", h.TransferImages)
		})
	})

	return r
}
