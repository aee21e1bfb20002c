package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/doorline/leadcapture-api/internal/auth"
	"github.com/doorline/leadcapture-api/internal/config"
	"github.com/doorline/leadcapture-api/internal/database"
	"github.com/doorline/leadcapture-api/internal/http/handler"
	"github.com/doorline/leadcapture-api/internal/http/middleware"
	"github.com/doorline/leadcapture-api/internal/metrics"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/doorline/leadcapture-api/docs" // Import generated swagger docs
)

// Pinger is implemented by draft stores backed by an external service
type Pinger interface {
	Ping(ctx context.Context) error
}

type Router struct {
	cfg            *config.Config
	logger         *zap.Logger
	db             *gorm.DB
	draftStore     Pinger
	authMiddleware *auth.Middleware
	rateLimiter    *middleware.RateLimiter
	authHandler    *handler.AuthHandler
	optionsHandler *handler.OptionsHandler
	wizardHandler  *handler.WizardHandler
	leadHandler    *handler.LeadHandler
}

// NewRouter wires the HTTP surface. draftStore may be nil when drafts are
// kept in memory.
func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	draftStore Pinger,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *handler.AuthHandler,
	optionsHandler *handler.OptionsHandler,
	wizardHandler *handler.WizardHandler,
	leadHandler *handler.LeadHandler,
) *Router {
	return &Router{
		cfg:            cfg,
		logger:         logger,
		db:             db,
		draftStore:     draftStore,
		authMiddleware: authMiddleware,
		rateLimiter:    rateLimiter,
		authHandler:    authHandler,
		optionsHandler: optionsHandler,
		wizardHandler:  wizardHandler,
		leadHandler:    leadHandler,
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP) // Apply IP-based rate limiting globally
	if rt.cfg.Server.MaxBodyMB > 0 {
		r.Use(chimiddleware.RequestSize(rt.cfg.Server.MaxBodyMB << 20))
	}
	if rt.cfg.Server.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(time.Duration(rt.cfg.Server.RequestTimeout) * time.Second))
	}

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with detailed stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
			},
		})
	})

	// Combined readiness check (checks all dependencies)
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{"status": "unhealthy", "error": err.Error()}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{"status": "healthy"}
		}

		if rt.draftStore != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
			err := rt.draftStore.Ping(ctx)
			cancel()
			if err != nil {
				rt.logger.Error("Draft store health check failed", zap.Error(err))
				checks["drafts"] = map[string]interface{}{"status": "unhealthy", "error": err.Error()}
				allHealthy = false
			} else {
				checks["drafts"] = map[string]interface{}{"status": "healthy"}
			}
		}

		status, code := "healthy", http.StatusOK
		if !allHealthy {
			status, code = "unhealthy", http.StatusServiceUnavailable
		}
		writeJSON(w, code, map[string]interface{}{
			"status": status,
			"checks": checks,
		})
	})

	if rt.cfg.Server.EnableMetrics {
		r.Handle("/metrics", metrics.Handler())
	}

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.With(rt.rateLimiter.LimitLogin).Post("/auth/login", rt.authHandler.Login)
		r.Get("/options", rt.optionsHandler.Options)
		r.Get("/steps", rt.optionsHandler.Steps)
		r.Post("/fields/sanitize", rt.optionsHandler.Sanitize)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.rateLimiter.Limit)

			r.Get("/auth/me", rt.authHandler.Me)

			// Lead capture wizard
			r.Route("/wizard", func(r chi.Router) {
				r.Post("/", rt.wizardHandler.Start)
				r.Get("/{id}", rt.wizardHandler.Get)
				r.Delete("/{id}", rt.wizardHandler.Delete)
				r.Put("/{id}/sections/{section}", rt.wizardHandler.UpdateSection)
				r.Post("/{id}/next", rt.wizardHandler.Next)
				r.Post("/{id}/back", rt.wizardHandler.Back)
				r.Post("/{id}/submit", rt.wizardHandler.Submit)
				r.Post("/{id}/reset", rt.wizardHandler.Reset)
				r.Get("/{id}/steps/{step}", rt.wizardHandler.StepView)
				r.Get("/{id}/review", rt.wizardHandler.Review)
			})

			// Leads dashboard
			r.Route("/leads", func(r chi.Router) {
				r.Get("/", rt.leadHandler.List)
				r.With(rt.authMiddleware.RequireAdmin).Get("/export", rt.leadHandler.Export)
				r.With(rt.authMiddleware.RequireAdmin).Post("/export/snapshot", rt.leadHandler.Snapshot)
				r.Get("/{id}", rt.leadHandler.GetByID)
			})
		})
	})

	return r
}
