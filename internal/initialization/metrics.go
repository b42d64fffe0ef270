package initialization

import (
	"time"

	"github.com/motionlab/MotionLab/api/internal/logging"
)

/* BootstrapMetrics tracks bootstrap performance metrics */
type BootstrapMetrics struct {
	StartTime           time.Time
	EndTime             time.Time
	Duration            time.Duration
	ValidationDuration  time.Duration
	SportConfigDuration time.Duration
	PromptsDuration     time.Duration
	StoreDuration       time.Duration
	PipelineDuration    time.Duration
	HealthCheckDuration time.Duration
	TotalSteps          int
	SuccessfulSteps     int
	FailedSteps         int
}

/* NewBootstrapMetrics creates a new metrics tracker */
func NewBootstrapMetrics() *BootstrapMetrics {
	return &BootstrapMetrics{
		StartTime: time.Now(),
	}
}

/* Finish marks the bootstrap as complete and calculates final metrics */
func (bm *BootstrapMetrics) Finish() {
	bm.EndTime = time.Now()
	bm.Duration = bm.EndTime.Sub(bm.StartTime)
}

/* LogMetrics logs the bootstrap metrics */
func (bm *BootstrapMetrics) LogMetrics(logger *logging.Logger) {
	successRate := 0.0
	if bm.TotalSteps > 0 {
		successRate = float64(bm.SuccessfulSteps) / float64(bm.TotalSteps) * 100
	}
	logger.Info("Bootstrap metrics", map[string]interface{}{
		"total_duration":        bm.Duration.String(),
		"validation_duration":   bm.ValidationDuration.String(),
		"sport_config_duration": bm.SportConfigDuration.String(),
		"prompts_duration":      bm.PromptsDuration.String(),
		"store_duration":        bm.StoreDuration.String(),
		"pipeline_duration":     bm.PipelineDuration.String(),
		"health_check_duration": bm.HealthCheckDuration.String(),
		"total_steps":           bm.TotalSteps,
		"successful_steps":      bm.SuccessfulSteps,
		"failed_steps":          bm.FailedSteps,
		"success_rate":          successRate,
	})
}

/* TrackStep tracks a step execution */
func (bm *BootstrapMetrics) TrackStep(name string, duration time.Duration, success bool) {
	bm.TotalSteps++
	if success {
		bm.SuccessfulSteps++
	} else {
		bm.FailedSteps++
	}

	switch name {
	case "validation":
		bm.ValidationDuration = duration
	case "sport_configs":
		bm.SportConfigDuration = duration
	case "prompts":
		bm.PromptsDuration = duration
	case "store":
		bm.StoreDuration = duration
	case "pipeline":
		bm.PipelineDuration = duration
	case "health_check":
		bm.HealthCheckDuration = duration
	}
}
