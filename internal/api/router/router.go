package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpmiddleware "github.com/gruzpro/site-platform/internal/http/middleware"
	"github.com/gruzpro/site-platform/internal/leads"
	"github.com/gruzpro/site-platform/internal/news"
	"github.com/gruzpro/site-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger       *logging.Logger
	LeadsHandler *leads.Handler
	NewsHandler  *news.Handler

	AdminAuthSecret    string
	CORSAllowedOrigins []string
	MetricsHandler     http.Handler

	// Intake rate limit; zero values disable the limiter.
	IntakeRate  float64
	IntakeBurst int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}

		public.Route("/api", func(api chi.Router) {
			intake := api
			if cfg.IntakeRate > 0 && cfg.IntakeBurst > 0 {
				intake = api.With(httpmiddleware.RateLimit(cfg.IntakeRate, cfg.IntakeBurst))
			}
			intake.Post("/applications", cfg.LeadsHandler.Create)

			api.Get("/news", cfg.NewsHandler.ListPublished)
			api.Get("/news/{slug}", cfg.NewsHandler.GetBySlug)
		})
	})

	// Admin endpoints behind JWT
	r.Route("/admin", func(admin chi.Router) {
		admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))

		admin.Get("/applications", cfg.LeadsHandler.List)
		admin.Patch("/applications/{id}/status", cfg.LeadsHandler.UpdateStatus)

		admin.Get("/news", cfg.NewsHandler.AdminList)
		admin.Post("/news", cfg.NewsHandler.AdminCreate)
		admin.Patch("/news/{id}", cfg.NewsHandler.AdminUpdate)
		admin.Delete("/news/{id}", cfg.NewsHandler.AdminDelete)
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
