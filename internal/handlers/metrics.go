package handlers

import (
	"net/http"

	"github.com/motionlab/MotionLab/api/internal/metrics"
)

/* MetricsHandlers handles in-memory stats endpoints */
type MetricsHandlers struct {
	metrics *metrics.Metrics
}

/* NewMetricsHandlers creates new metrics handlers */
func NewMetricsHandlers() *MetricsHandlers {
	return &MetricsHandlers{
		metrics: metrics.GetGlobalMetrics(),
	}
}

/* GetStats returns current request and analysis counters */
func (h *MetricsHandlers) GetStats(w http.ResponseWriter, r *http.Request) {
	stats := h.metrics.GetStats()
	WriteSuccess(w, stats, http.StatusOK)
}

/* ResetStats resets all counters */
func (h *MetricsHandlers) ResetStats(w http.ResponseWriter, r *http.Request) {
	h.metrics.Reset()
	WriteSuccess(w, map[string]string{"message": "Stats reset"}, http.StatusOK)
}
