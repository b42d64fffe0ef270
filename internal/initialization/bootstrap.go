package initialization

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/motionlab/MotionLab/api/internal/analysis"
	"github.com/motionlab/MotionLab/api/internal/config"
	"github.com/motionlab/MotionLab/api/internal/db"
	"github.com/motionlab/MotionLab/api/internal/feedback"
	"github.com/motionlab/MotionLab/api/internal/logging"
	"github.com/motionlab/MotionLab/api/internal/pose"
	"github.com/motionlab/MotionLab/api/internal/sportconfig"
)

// Bootstrap handles all application initialization tasks
type Bootstrap struct {
	cfg       *config.Config
	logger    *logging.Logger
	validator *Validator
}

// NewBootstrap creates a new bootstrap instance
func NewBootstrap(cfg *config.Config, logger *logging.Logger) *Bootstrap {
	return &Bootstrap{
		cfg:       cfg,
		logger:    logger,
		validator: NewValidator(logger),
	}
}

// Deps holds everything the server needs after a successful bootstrap.
// Database and Queries are nil when the analysis store is disabled.
type Deps struct {
	Database     *sql.DB
	Queries      *db.Queries
	Registry     *sportconfig.Registry
	PoseClient   *pose.Client
	Generator    analysis.FeedbackGenerator
	FeedbackMode string
	Orchestrator *analysis.Orchestrator
}

// Close releases resources held by the bootstrapped dependencies
func (d *Deps) Close() {
	if d.Database != nil {
		d.Database.Close()
	}
}

// Initialize performs all initialization tasks in the correct order.
// Configuration and sport profile problems fail startup; a missing
// store or unreachable pose service only degrade the health snapshot.
func (b *Bootstrap) Initialize(ctx context.Context) (*Deps, error) {
	metrics := NewBootstrapMetrics()
	defer metrics.LogMetrics(b.logger)
	defer metrics.Finish()

	b.logger.Info("Starting application bootstrap sequence", nil)
	deps := &Deps{}

	// Step 1: Validate configuration
	stepStart := time.Now()
	validation := b.validator.ValidateConfig(b.cfg)
	for _, warning := range validation.Warnings {
		b.logger.Warn("Configuration warning", map[string]interface{}{
			"warning": warning,
		})
	}
	if !validation.Valid {
		metrics.TrackStep("validation", time.Since(stepStart), false)
		for _, errMsg := range validation.Errors {
			b.logger.Error("Configuration error", fmt.Errorf("%s", errMsg), nil)
		}
		return nil, fmt.Errorf("configuration validation failed with %d errors", len(validation.Errors))
	}
	metrics.TrackStep("validation", time.Since(stepStart), true)

	// Step 2: Load sport profiles. Malformed entries fail startup, not
	// per-request handling.
	stepStart = time.Now()
	registry, err := sportconfig.Load(b.cfg.SportConfig.Dir)
	if err != nil {
		metrics.TrackStep("sport_configs", time.Since(stepStart), false)
		return nil, fmt.Errorf("failed to load sport profiles: %w", err)
	}
	metrics.TrackStep("sport_configs", time.Since(stepStart), true)
	deps.Registry = registry
	b.logger.Info("Sport profiles loaded", map[string]interface{}{
		"dir":      b.cfg.SportConfig.Dir,
		"profiles": registry.Len(),
	})

	// Step 3: Load the feedback prompt template and build the generator
	stepStart = time.Now()
	generator, mode, err := b.buildGenerator()
	if err != nil {
		metrics.TrackStep("prompts", time.Since(stepStart), false)
		return nil, err
	}
	metrics.TrackStep("prompts", time.Since(stepStart), true)
	deps.Generator = generator
	deps.FeedbackMode = mode
	b.logger.Info("Feedback generator ready", map[string]interface{}{
		"mode":           mode,
		"prompt_version": generator.Version(),
	})

	// Step 4: Connect the analysis store (optional, with retry)
	if b.cfg.Database.Enabled {
		stepStart = time.Now()
		database, err := b.connectStoreWithRetry(ctx)
		if err != nil {
			metrics.TrackStep("store", time.Since(stepStart), false)
			return nil, fmt.Errorf("failed to connect analysis store: %w", err)
		}
		metrics.TrackStep("store", time.Since(stepStart), true)
		deps.Database = database
		deps.Queries = db.NewQueries(database)
	}

	// Step 5: Wire the analysis pipeline
	stepStart = time.Now()
	deps.PoseClient = pose.NewClient(b.cfg.Pose.BaseURL, b.cfg.Pose.APIKey, b.cfg.Pose.Timeout)
	deps.Orchestrator = b.buildPipeline(registry, deps.PoseClient, generator)
	metrics.TrackStep("pipeline", time.Since(stepStart), true)

	// Step 6: Perform startup health check (best effort)
	stepStart = time.Now()
	healthChecker := NewHealthChecker(deps, b.logger)
	healthStatus := healthChecker.CheckAll(ctx)
	metrics.TrackStep("health_check", time.Since(stepStart), healthStatus.Overall)
	if !healthStatus.Overall {
		b.logger.Warn("Startup health check completed with issues", map[string]interface{}{
			"status": healthStatus.Status,
			"checks": healthStatus.Checks,
		})
	} else {
		b.logger.Info("Startup health check passed", map[string]interface{}{
			"status": healthStatus.Status,
		})
	}

	b.logger.Info("Application bootstrap completed successfully", map[string]interface{}{
		"total_duration": time.Since(metrics.StartTime).String(),
	})
	return deps, nil
}

// buildGenerator loads the prompt template and picks the generator for
// the configured mode. Running "openai" without an API key falls back to
// noop so local and test deployments work without credentials.
func (b *Bootstrap) buildGenerator() (analysis.FeedbackGenerator, string, error) {
	prompts, err := feedback.LoadPrompts(b.cfg.Feedback.PromptFile)
	if err != nil {
		if b.cfg.Feedback.Mode == "openai" {
			return nil, "", fmt.Errorf("failed to load prompt template: %w", err)
		}
		b.logger.Warn("Prompt template unavailable, using built-in noop feedback", map[string]interface{}{
			"file":  b.cfg.Feedback.PromptFile,
			"error": err.Error(),
		})
		return feedback.NewNoopGenerator(""), "noop", nil
	}

	if b.cfg.Feedback.Mode == "openai" && b.cfg.Feedback.APIKey != "" {
		generator := feedback.NewOpenAIGenerator(
			b.cfg.Feedback.APIKey,
			b.cfg.Feedback.Model,
			b.cfg.Feedback.Timeout,
			prompts,
			b.logger,
		)
		return generator, "openai", nil
	}

	return feedback.NewNoopGenerator(prompts.Version()), "noop", nil
}

// connectStoreWithRetry opens the store, configures the pool and runs
// the schema migration, retrying transient connection failures.
func (b *Bootstrap) connectStoreWithRetry(ctx context.Context) (*sql.DB, error) {
	var database *sql.DB

	connect := func(ctx context.Context) error {
		conn, err := sql.Open("pgx", b.cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("open: %w", err)
		}

		conn.SetMaxOpenConns(b.cfg.Database.MaxOpenConns)
		conn.SetMaxIdleConns(b.cfg.Database.MaxIdleConns)
		conn.SetConnMaxLifetime(b.cfg.Database.ConnMaxLifetime)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := conn.PingContext(pingCtx); err != nil {
			conn.Close()
			return fmt.Errorf("ping: %w", err)
		}

		database = conn
		return nil
	}

	if err := RetryWithBackoff(ctx, b.logger, "connect analysis store", connect); err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx, database); err != nil {
		database.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	b.logger.Info("Connected to analysis store", map[string]interface{}{
		"host": b.cfg.Database.Host,
		"port": b.cfg.Database.Port,
		"name": b.cfg.Database.Name,
	})
	return database, nil
}

// buildPipeline assembles the analysis stages from the configured
// tunables. Every threshold flows in through params structs so pipeline
// runs stay referentially transparent.
func (b *Bootstrap) buildPipeline(registry *sportconfig.Registry, source analysis.LandmarkSource, generator analysis.FeedbackGenerator) *analysis.Orchestrator {
	a := b.cfg.Analysis

	calculator := analysis.NewCalculator(analysis.CalculatorParams{
		SmoothWindow:        a.SmoothWindow,
		ConfidenceThreshold: a.ConfidenceThreshold,
	})
	detector := analysis.NewDetector(analysis.DetectorParams{
		MinFrames:      a.MinFrames,
		MinPhaseFrames: a.MinPhaseFrames,
		SmoothWindow:   a.SmoothWindow,
		RiseThreshold:  a.RiseThreshold,
		FallThreshold:  a.FallThreshold,
		DecelThreshold: a.DecelThreshold,
	})
	evaluator := analysis.NewEvaluator(registry, analysis.EvaluatorParams{
		TopK: a.TopK,
	})
	retry := analysis.RetryPolicy{
		MaxAttempts:  b.cfg.Feedback.MaxAttempts,
		InitialDelay: b.cfg.Feedback.InitialDelay,
		MaxDelay:     b.cfg.Feedback.MaxDelay,
		Multiplier:   b.cfg.Feedback.Multiplier,
	}

	return analysis.NewOrchestrator(source, calculator, detector, evaluator, generator, retry, a.DefaultFPS, b.logger)
}
