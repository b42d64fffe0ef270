package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "motionlab_api_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "motionlab_api_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Analysis pipeline metrics
	analysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "motionlab_api_analyses_total",
			Help: "Total number of analyses by sport and outcome",
		},
		[]string{"sport_type", "status"},
	)

	analysisStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "motionlab_api_analysis_stage_duration_seconds",
			Help:    "Analysis stage duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	analysisScore = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "motionlab_api_analysis_score",
			Help:    "Overall analysis scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
		[]string{"sport_type"},
	)

	degradedFeedbackTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "motionlab_api_degraded_feedback_total",
			Help: "Total number of analyses that fell back to canned feedback",
		},
	)
)

// RecordHTTPRequest records an HTTP request
func RecordHTTPRequest(method, endpoint string, statusCode int, durationSeconds float64) {
	status := "unknown"
	if statusCode >= 200 && statusCode < 300 {
		status = "2xx"
	} else if statusCode >= 300 && statusCode < 400 {
		status = "3xx"
	} else if statusCode >= 400 && statusCode < 500 {
		status = "4xx"
	} else if statusCode >= 500 {
		status = "5xx"
	}

	httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}

// RecordAnalysisOutcome records a finished analysis by sport and status
func RecordAnalysisOutcome(sportType, status string) {
	analysesTotal.WithLabelValues(sportType, status).Inc()
}

// ObserveStageDuration records how long a pipeline stage took
func ObserveStageDuration(stage string, seconds float64) {
	analysisStageDuration.WithLabelValues(stage).Observe(seconds)
}

// ObserveScore records an overall analysis score
func ObserveScore(sportType string, score float64) {
	analysisScore.WithLabelValues(sportType).Observe(score)
}

// RecordDegradedFeedback counts an analysis served with fallback feedback
func RecordDegradedFeedback() {
	degradedFeedbackTotal.Inc()
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
