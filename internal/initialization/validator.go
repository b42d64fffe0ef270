package initialization

import (
	"fmt"

	"github.com/motionlab/MotionLab/api/internal/config"
	"github.com/motionlab/MotionLab/api/internal/logging"
	"github.com/motionlab/MotionLab/api/internal/validation"
)

/* Validator validates configuration before the server starts */
type Validator struct {
	logger *logging.Logger
}

/* NewValidator creates a new validator instance */
func NewValidator(logger *logging.Logger) *Validator {
	return &Validator{
		logger: logger,
	}
}

/* ValidationResult represents the result of validation */
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

func (r *ValidationResult) addError(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Valid = false
}

func (r *ValidationResult) addWarning(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

/* ValidateConfig checks the whole configuration. Errors mean the server
   must not start; warnings are logged and startup continues. */
func (v *Validator) ValidateConfig(cfg *config.Config) ValidationResult {
	result := ValidationResult{
		Valid:    true,
		Errors:   []string{},
		Warnings: []string{},
	}

	v.validateServer(cfg, &result)
	v.validateDatabase(cfg, &result)
	v.validatePose(cfg, &result)
	v.validateFeedback(cfg, &result)
	v.validateAnalysis(cfg, &result)

	if cfg.SportConfig.Dir == "" {
		result.addError("SPORT_CONFIG_DIR cannot be empty")
	}

	if len(cfg.Auth.APIKeys) == 0 {
		result.addWarning("no API key hashes configured, authentication is disabled")
	}

	return result
}

func (v *Validator) validateServer(cfg *config.Config, result *ValidationResult) {
	if cfg.Server.Port == "" {
		result.addError("SERVER_PORT cannot be empty")
	}
	if cfg.Server.MaxRequestSize <= 0 {
		result.addWarning("SERVER_MAX_REQUEST_SIZE is not positive, request size limit is disabled")
	}
	if cfg.Server.RateLimitRequests <= 0 {
		result.addWarning("SERVER_RATE_LIMIT_REQUESTS is not positive, rate limiting is disabled")
	}
}

func (v *Validator) validateDatabase(cfg *config.Config, result *ValidationResult) {
	if !cfg.Database.Enabled {
		result.addWarning("analysis store is disabled, history endpoints will return 503")
		return
	}

	dsnResult := validation.ValidateDSN(cfg.Database.DSN())
	if !dsnResult.Valid {
		result.addError("database configuration is invalid: %s", dsnResult.Error)
	}
	for _, warning := range dsnResult.Warnings {
		result.addWarning("database configuration: %s", warning)
	}

	if cfg.Database.MaxOpenConns <= 0 {
		result.addError("DB_MAX_OPEN_CONNS must be positive, got %d", cfg.Database.MaxOpenConns)
	}
}

func (v *Validator) validatePose(cfg *config.Config, result *ValidationResult) {
	if err := validation.ValidateURLRequired(cfg.Pose.BaseURL, "POSE_SERVICE_URL"); err != nil {
		result.addError("%v", err)
	}
	if cfg.Pose.Timeout <= 0 {
		result.addError("POSE_SERVICE_TIMEOUT must be positive")
	}
	if cfg.Pose.APIKey == "" {
		result.addWarning("POSE_SERVICE_API_KEY is empty, pose service calls are unauthenticated")
	}
}

func (v *Validator) validateFeedback(cfg *config.Config, result *ValidationResult) {
	switch cfg.Feedback.Mode {
	case "openai", "noop":
	default:
		result.addError("FEEDBACK_MODE must be \"openai\" or \"noop\", got %q", cfg.Feedback.Mode)
		return
	}

	if err := validation.ValidateFilePathRequired(cfg.Feedback.PromptFile, "FEEDBACK_PROMPT_FILE"); err != nil {
		result.addError("%v", err)
	}

	if cfg.Feedback.Mode == "openai" && cfg.Feedback.APIKey == "" {
		result.addWarning("OPENAI_API_KEY is empty, falling back to noop feedback mode")
	}

	if cfg.Feedback.MaxAttempts < 1 {
		result.addError("FEEDBACK_MAX_ATTEMPTS must be at least 1, got %d", cfg.Feedback.MaxAttempts)
	}
	if cfg.Feedback.Multiplier < 1.0 {
		result.addError("FEEDBACK_DELAY_MULTIPLIER must be at least 1.0, got %g", cfg.Feedback.Multiplier)
	}
	if cfg.Feedback.MaxDelay < cfg.Feedback.InitialDelay {
		result.addError("FEEDBACK_MAX_DELAY must not be below FEEDBACK_INITIAL_DELAY")
	}
}

func (v *Validator) validateAnalysis(cfg *config.Config, result *ValidationResult) {
	a := cfg.Analysis

	if a.SmoothWindow < 1 {
		result.addError("ANALYSIS_SMOOTH_WINDOW must be at least 1, got %d", a.SmoothWindow)
	}
	if a.ConfidenceThreshold < 0 || a.ConfidenceThreshold > 1 {
		result.addError("ANALYSIS_CONFIDENCE_THRESHOLD must be in [0,1], got %g", a.ConfidenceThreshold)
	}
	if a.MinFrames < 1 {
		result.addError("ANALYSIS_MIN_FRAMES must be at least 1, got %d", a.MinFrames)
	}
	if a.MinPhaseFrames < 1 {
		result.addError("ANALYSIS_MIN_PHASE_FRAMES must be at least 1, got %d", a.MinPhaseFrames)
	}
	if a.TopK < 3 || a.TopK > 5 {
		result.addWarning("ANALYSIS_TOP_DEVIATIONS %d is outside [3,5] and will be clamped", a.TopK)
	}
	if a.DefaultFPS <= 0 {
		result.addError("ANALYSIS_DEFAULT_FPS must be positive, got %g", a.DefaultFPS)
	}
	if a.Timeout <= 0 {
		result.addError("ANALYSIS_TIMEOUT must be positive")
	}
}
