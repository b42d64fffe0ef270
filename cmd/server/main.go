package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/motionlab/MotionLab/api/internal/auth"
	"github.com/motionlab/MotionLab/api/internal/config"
	"github.com/motionlab/MotionLab/api/internal/handlers"
	"github.com/motionlab/MotionLab/api/internal/initialization"
	"github.com/motionlab/MotionLab/api/internal/logging"
	"github.com/motionlab/MotionLab/api/internal/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	logger.Info("Starting MotionLab API server", nil)

	// Bootstrap application (config validation, sport profiles, prompts,
	// store, pipeline wiring)
	initCtx, initCancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer initCancel()

	bootstrap := initialization.NewBootstrap(cfg, logger)
	deps, err := bootstrap.Initialize(initCtx)
	if err != nil {
		logger.Error("Failed to bootstrap application", err, nil)
		os.Exit(1)
	}
	defer deps.Close()

	// The store is optional; a nil Queries pointer must stay a nil
	// interface so handlers can detect the disabled store.
	var store handlers.AnalysisStore
	if deps.Queries != nil {
		store = deps.Queries
	}

	// Initialize handlers
	analysisHandlers := handlers.NewAnalysisHandlers(deps.Orchestrator, store, deps.Registry, cfg.Analysis.Timeout, logger)
	sportHandlers := handlers.NewSportHandlers(deps.Registry)
	healthHandlers := handlers.NewHealthHandlers(deps.Database, deps.PoseClient, deps.FeedbackMode)
	metricsHandlers := handlers.NewMetricsHandlers()
	systemMetricsHandlers := handlers.NewSystemMetricsHandlers(logger)
	requestLogHandlers := handlers.NewRequestLogHandlers(store)

	// Auth and rate limiting
	keyChecker := auth.NewKeyChecker(cfg.Auth.APIKeys, logger)
	var rateLimiter *middleware.RateLimiter
	if cfg.Server.RateLimitRequests > 0 {
		rateLimiter = middleware.NewRateLimiter(cfg.Server.RateLimitRequests, cfg.Server.RateLimitWindow)
	}

	// Setup router
	router := handlers.NewRouter(handlers.RouterConfig{
		Analyses:       analysisHandlers,
		Sports:         sportHandlers,
		Health:         healthHandlers,
		Stats:          metricsHandlers,
		SystemMetrics:  systemMetricsHandlers,
		RequestLogs:    requestLogHandlers,
		KeyChecker:     keyChecker,
		RateLimiter:    rateLimiter,
		MaxRequestSize: cfg.Server.MaxRequestSize,
		Logger:         logger,
	})

	// Create HTTP server
	addr := cfg.Server.Host + ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Server starting", map[string]interface{}{
			"address":       addr,
			"auth_enabled":  keyChecker.Enabled(),
			"store_enabled": store != nil,
			"feedback_mode": deps.FeedbackMode,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", err, nil)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server", nil)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", err, nil)
	}

	logger.Info("Server stopped", nil)
}
