package initialization

import (
	"context"
	"fmt"
	"time"

	"github.com/motionlab/MotionLab/api/internal/logging"
)

// HealthChecker probes the bootstrapped dependencies at startup
type HealthChecker struct {
	deps   *Deps
	logger *logging.Logger
}

// NewHealthChecker creates a new health checker instance
func NewHealthChecker(deps *Deps, logger *logging.Logger) *HealthChecker {
	return &HealthChecker{
		deps:   deps,
		logger: logger,
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string                 `json:"status"` // "healthy", "degraded", "unhealthy"
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks"`
	Overall   bool                   `json:"overall"`
}

// CheckResult represents the result of an individual health check
type CheckResult struct {
	Status      string        `json:"status"` // "pass", "warn", "fail"
	Message     string        `json:"message"`
	Duration    time.Duration `json:"duration"`
	LastChecked time.Time     `json:"last_checked"`
}

// CheckAll performs all startup health checks. Only sport profiles are
// load-bearing; unreachable external services degrade the status since
// they may come up after this server does.
func (hc *HealthChecker) CheckAll(ctx context.Context) HealthStatus {
	checks := make(map[string]CheckResult)

	checks["sport_configs"] = hc.checkSportConfigs()
	checks["pose_service"] = hc.checkPoseService(ctx)
	checks["analysis_store"] = hc.checkStore(ctx)

	overall := true
	status := "healthy"
	for _, check := range checks {
		if check.Status == "fail" {
			overall = false
			status = "unhealthy"
			break
		} else if check.Status == "warn" && status == "healthy" {
			status = "degraded"
		}
	}

	return HealthStatus{
		Status:    status,
		Timestamp: time.Now(),
		Checks:    checks,
		Overall:   overall,
	}
}

// checkSportConfigs verifies the profile registry holds at least one entry
func (hc *HealthChecker) checkSportConfigs() CheckResult {
	start := time.Now()

	if hc.deps.Registry == nil || hc.deps.Registry.Len() == 0 {
		return CheckResult{
			Status:      "fail",
			Message:     "no sport profiles loaded",
			Duration:    time.Since(start),
			LastChecked: time.Now(),
		}
	}

	return CheckResult{
		Status:      "pass",
		Message:     fmt.Sprintf("%d sport profiles loaded", hc.deps.Registry.Len()),
		Duration:    time.Since(start),
		LastChecked: time.Now(),
	}
}

// checkPoseService probes the pose extraction service health endpoint
func (hc *HealthChecker) checkPoseService(ctx context.Context) CheckResult {
	start := time.Now()

	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := hc.deps.PoseClient.Health(probeCtx); err != nil {
		return CheckResult{
			Status:      "warn",
			Message:     fmt.Sprintf("pose service unreachable: %v", err),
			Duration:    time.Since(start),
			LastChecked: time.Now(),
		}
	}

	return CheckResult{
		Status:      "pass",
		Message:     "pose service is reachable",
		Duration:    time.Since(start),
		LastChecked: time.Now(),
	}
}

// checkStore verifies analysis store connectivity when configured
func (hc *HealthChecker) checkStore(ctx context.Context) CheckResult {
	start := time.Now()

	if hc.deps.Database == nil {
		return CheckResult{
			Status:      "warn",
			Message:     "analysis store not configured, history endpoints disabled",
			Duration:    time.Since(start),
			LastChecked: time.Now(),
		}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := hc.deps.Database.PingContext(pingCtx); err != nil {
		return CheckResult{
			Status:      "fail",
			Message:     fmt.Sprintf("analysis store connection failed: %v", err),
			Duration:    time.Since(start),
			LastChecked: time.Now(),
		}
	}

	return CheckResult{
		Status:      "pass",
		Message:     "analysis store connection is healthy",
		Duration:    time.Since(start),
		LastChecked: time.Now(),
	}
}
