package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/doorline/leadcapture-api/docs"
	"github.com/doorline/leadcapture-api/internal/auth"
	"github.com/doorline/leadcapture-api/internal/config"
	"github.com/doorline/leadcapture-api/internal/database"
	"github.com/doorline/leadcapture-api/internal/http/handler"
	"github.com/doorline/leadcapture-api/internal/http/middleware"
	"github.com/doorline/leadcapture-api/internal/http/router"
	"github.com/doorline/leadcapture-api/internal/jobs"
	"github.com/doorline/leadcapture-api/internal/logger"
	"github.com/doorline/leadcapture-api/internal/repository"
	"github.com/doorline/leadcapture-api/internal/service"
	"github.com/doorline/leadcapture-api/internal/storage"
	"github.com/doorline/leadcapture-api/internal/wizard"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// @title Door Lead Capture API
// @version 1.0
// @description Field sales lead capture for construction door projects: a six-step wizard, a lead dashboard and CSV export

// @contact.name API Support
// @contact.email support@doorline.example

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token from /auth/login

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API Key for system operations

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	if host := os.Getenv("SWAGGER_HOST"); host != "" {
		docs.SwaggerInfo.Host = host
	} else {
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warn("Error closing database", zap.Error(err))
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to auto-migrate: %w", err)
		}
		log.Info("Database schema auto-migrated")
	}

	// Export snapshots are optional; the API runs without storage
	var exportStorage storage.Storage
	if cfg.Storage.Mode != "" && cfg.Storage.Mode != "none" {
		exportStorage, err = storage.NewStorage(&cfg.Storage, log)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))
	}

	// Draft store
	var (
		draftStore  wizard.Store
		draftPinger router.Pinger
		redisClient *redis.Client
	)
	switch cfg.Drafts.Store {
	case "redis":
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Drafts.RedisAddr,
			Password: cfg.Drafts.RedisPassword,
			DB:       cfg.Drafts.RedisDB,
		})
		rs := wizard.NewRedisStore(redisClient, cfg.Drafts.KeyPrefix, cfg.Drafts.TTLDuration())
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := rs.Ping(pingCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to connect to draft store: %w", err)
		}
		draftStore, draftPinger = rs, rs
	default:
		draftStore = wizard.NewMemoryStore(cfg.Drafts.TTLDuration())
	}
	log.Info("Draft store initialized",
		zap.String("store", cfg.Drafts.Store),
		zap.Duration("ttl", cfg.Drafts.TTLDuration()),
	)

	// Initialize repositories
	leadRepo := repository.NewLeadRepository(db)
	numberSequenceRepo := repository.NewNumberSequenceRepository(db)

	// Initialize services
	numberSequenceService := service.NewNumberSequenceService(numberSequenceRepo, log)
	leadService := service.NewLeadService(db, leadRepo, numberSequenceService, log)
	dashboardService := service.NewDashboardService(leadRepo, log)
	exportService := service.NewExportService(leadRepo, exportStorage, log)
	wizardService := wizard.NewService(draftStore, leadService, log)

	tokens := auth.NewTokenIssuer(&cfg.Auth)
	authService := service.NewAuthService(auth.NewCredentials(&cfg.Auth), tokens, log)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(tokens, cfg.ApiKey.Value, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	rt := router.NewRouter(
		cfg,
		log,
		db,
		draftPinger,
		authMiddleware,
		rateLimiter,
		handler.NewAuthHandler(authService, log),
		handler.NewOptionsHandler(),
		handler.NewWizardHandler(wizardService, log),
		handler.NewLeadHandler(dashboardService, exportService, log),
	)

	// Background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log, cfg.Jobs.TimeoutDuration())

		if err := jobs.RegisterDraftCleanupJob(scheduler, wizardService, log, cfg.Jobs.DraftCleanupCron); err != nil {
			log.Error("Failed to register draft cleanup job", zap.Error(err))
		}
		if cfg.Jobs.ExportSnapshot {
			if exportStorage == nil {
				log.Warn("Export snapshot job enabled without storage, skipping")
			} else if err := jobs.RegisterExportSnapshotJob(scheduler, exportService, log, cfg.Jobs.ExportSnapshotCron); err != nil {
				log.Error("Failed to register export snapshot job", zap.Error(err))
			}
		}

		scheduler.Start()
		log.Info("Scheduler started", zap.Strings("jobs", scheduler.JobNames()))
	} else {
		log.Info("Background jobs disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			stopped := scheduler.Stop()
			<-stopped.Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				log.Warn("Error closing draft store connection", zap.Error(err))
			}
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
