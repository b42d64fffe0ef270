package handlers

import (
	"net/http"

	"github.com/motionlab/MotionLab/api/internal/analysis"
	"github.com/motionlab/MotionLab/api/internal/logging"
	"github.com/motionlab/MotionLab/api/internal/metrics"
)

// SystemMetricsHandlers handles system metrics endpoints
type SystemMetricsHandlers struct {
	logger *logging.Logger
}

// NewSystemMetricsHandlers creates new system metrics handlers
func NewSystemMetricsHandlers(logger *logging.Logger) *SystemMetricsHandlers {
	return &SystemMetricsHandlers{
		logger: logger,
	}
}

// GetSystemMetrics returns a CPU, memory, disk and network snapshot
func (h *SystemMetricsHandlers) GetSystemMetrics(w http.ResponseWriter, r *http.Request) {
	systemMetrics, err := metrics.CollectSystemMetrics(r.Context())
	if err != nil {
		h.logger.Error("Failed to collect system metrics", err, nil)
		WriteError(w, r, analysis.NewInternalError(err))
		return
	}

	WriteSuccess(w, systemMetrics, http.StatusOK)
}
