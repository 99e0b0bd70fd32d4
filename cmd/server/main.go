package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ssg-mis/dispatch-api/internal/api"
	"github.com/ssg-mis/dispatch-api/internal/config"
	"github.com/ssg-mis/dispatch-api/internal/events"
	"github.com/ssg-mis/dispatch-api/internal/repository/postgres"
	"github.com/ssg-mis/dispatch-api/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, _ = zap.NewProduction()
	} else {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	logger.Info("Starting dispatch workflow API server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
	)

	// Initialize database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	repos := postgres.NewRepositories(db, logger)

	// Initialize event publisher (noop when NATS is not configured)
	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.NATS.URL != "" {
		natsPublisher, err := events.NewNATSPublisher(cfg.NATS.URL)
		if err != nil {
			logger.Warn("Failed to connect to NATS, continuing without events", zap.Error(err))
		} else {
			publisher = natsPublisher
			defer natsPublisher.Close()
			logger.Info("Stage-completed events enabled", zap.String("subject", cfg.NATS.Subject))
		}
	}

	// Initialize services
	stageSvc := service.NewStageService(repos, publisher, cfg.NATS.Subject, cfg.PendingLimit, logger)
	exportSvc := service.NewExportService(repos)
	uploadSvc := service.NewUploadService(cfg.Storage)

	// Initialize router
	router := api.NewRouter(cfg, repos, stageSvc, exportSvc, uploadSvc, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Server started successfully", zap.String("address", srv.Addr))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
