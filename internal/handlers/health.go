package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"
)

/* ServiceVersion is reported by the health endpoint */
const ServiceVersion = "1.0.0"

/* PoseProber checks the pose extraction service */
type PoseProber interface {
	Health(ctx context.Context) error
}

/* HealthHandlers handles the health endpoint */
type HealthHandlers struct {
	database     *sql.DB
	pose         PoseProber
	feedbackMode string
}

/* NewHealthHandlers creates new health handlers. The database and pose
   prober may be nil when those dependencies are not configured. */
func NewHealthHandlers(database *sql.DB, pose PoseProber, feedbackMode string) *HealthHandlers {
	return &HealthHandlers{
		database:     database,
		pose:         pose,
		feedbackMode: feedbackMode,
	}
}

/* ComponentHealth reports the state of one dependency */
type ComponentHealth struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Mode   string `json:"mode,omitempty"`
}

/* GetHealth returns liveness plus a dependency snapshot */
func (h *HealthHandlers) GetHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	components := map[string]ComponentHealth{
		"store":        h.checkStore(ctx),
		"pose_service": h.checkPose(ctx),
		"feedback":     {Status: "ok", Mode: h.feedbackMode},
	}

	status := "ok"
	for _, component := range components {
		if component.Status == "unreachable" {
			status = "degraded"
			break
		}
	}

	WriteSuccess(w, map[string]interface{}{
		"status":     status,
		"service":    "motionlab-api",
		"version":    ServiceVersion,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"components": components,
	}, http.StatusOK)
}

func (h *HealthHandlers) checkStore(ctx context.Context) ComponentHealth {
	if h.database == nil {
		return ComponentHealth{Status: "not_configured"}
	}
	if err := h.database.PingContext(ctx); err != nil {
		return ComponentHealth{Status: "unreachable", Error: err.Error()}
	}
	return ComponentHealth{Status: "ok"}
}

func (h *HealthHandlers) checkPose(ctx context.Context) ComponentHealth {
	if h.pose == nil {
		return ComponentHealth{Status: "not_configured"}
	}
	if err := h.pose.Health(ctx); err != nil {
		return ComponentHealth{Status: "unreachable", Error: err.Error()}
	}
	return ComponentHealth{Status: "ok"}
}
