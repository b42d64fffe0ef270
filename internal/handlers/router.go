package handlers

import (
	"github.com/gorilla/mux"
	"github.com/motionlab/MotionLab/api/internal/auth"
	"github.com/motionlab/MotionLab/api/internal/logging"
	"github.com/motionlab/MotionLab/api/internal/metrics"
	"github.com/motionlab/MotionLab/api/internal/middleware"
)

/* RouterConfig wires the handlers and middleware into one router */
type RouterConfig struct {
	Analyses       *AnalysisHandlers
	Sports         *SportHandlers
	Health         *HealthHandlers
	Stats          *MetricsHandlers
	SystemMetrics  *SystemMetricsHandlers
	RequestLogs    *RequestLogHandlers
	KeyChecker     *auth.KeyChecker
	RateLimiter    *middleware.RateLimiter
	MaxRequestSize int64
	Logger         *logging.Logger
}

/* NewRouter builds the complete route table with the standard middleware
   chain. Health and Prometheus exposition stay outside the API key check. */
func NewRouter(cfg RouterConfig) *mux.Router {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewLogger("error", "json", "stderr")
	}

	router := mux.NewRouter()

	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RecoveryMiddleware(cfg.Logger))
	if cfg.MaxRequestSize > 0 {
		router.Use(middleware.RequestSizeMiddleware(cfg.MaxRequestSize))
	}
	if cfg.RateLimiter != nil {
		router.Use(middleware.RateLimitMiddleware(cfg.RateLimiter))
	}
	router.Use(middleware.LoggingMiddleware(cfg.Logger))

	router.HandleFunc("/health", cfg.Health.GetHealth).Methods("GET")
	router.Handle("/metrics", metrics.Handler()).Methods("GET")

	apiRouter := router.PathPrefix("/api/v1").Subrouter()
	if cfg.KeyChecker != nil {
		apiRouter.Use(auth.Middleware(cfg.KeyChecker))
	}

	apiRouter.HandleFunc("/analyze", cfg.Analyses.Analyze).Methods("POST")
	apiRouter.HandleFunc("/analyses", cfg.Analyses.ListAnalyses).Methods("GET")
	apiRouter.HandleFunc("/analyses/{motion_id}", cfg.Analyses.GetAnalysis).Methods("GET")
	apiRouter.HandleFunc("/sports", cfg.Sports.ListSports).Methods("GET")
	apiRouter.HandleFunc("/stats", cfg.Stats.GetStats).Methods("GET")
	apiRouter.HandleFunc("/stats/reset", cfg.Stats.ResetStats).Methods("POST")
	apiRouter.HandleFunc("/system/metrics", cfg.SystemMetrics.GetSystemMetrics).Methods("GET")
	apiRouter.HandleFunc("/request-logs", cfg.RequestLogs.ListLogs).Methods("GET")

	return router
}
