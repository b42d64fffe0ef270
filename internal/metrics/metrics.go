package metrics

import (
	"sync"
	"time"
)

/* Metrics collects application metrics */
type Metrics struct {
	mu sync.RWMutex

	TotalRequests      int64
	SuccessfulRequests int64
	FailedRequests     int64

	TotalResponseTime time.Duration
	MinResponseTime   time.Duration
	MaxResponseTime   time.Duration

	EndpointCounts map[string]int64
	EndpointErrors map[string]int64

	TotalAnalyses     int64
	CompletedAnalyses int64
	FailedAnalyses    int64
	DegradedFeedback  int64

	SportCounts map[string]int64
	ScoreSum    float64
	ScoreCount  int64

	ErrorCounts map[string]int64
}

var globalMetrics = NewMetrics()

/* NewMetrics creates a new metrics instance */
func NewMetrics() *Metrics {
	return &Metrics{
		EndpointCounts:  make(map[string]int64),
		EndpointErrors:  make(map[string]int64),
		SportCounts:     make(map[string]int64),
		ErrorCounts:     make(map[string]int64),
		MinResponseTime: time.Hour, /* Initialize to large value */
	}
}

/* GetGlobalMetrics returns the global metrics instance */
func GetGlobalMetrics() *Metrics {
	return globalMetrics
}

/* RecordRequest records a request */
func (m *Metrics) RecordRequest(endpoint string, success bool, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalRequests++
	if success {
		m.SuccessfulRequests++
	} else {
		m.FailedRequests++
		m.EndpointErrors[endpoint]++
	}

	m.EndpointCounts[endpoint]++
	m.TotalResponseTime += duration

	if duration < m.MinResponseTime {
		m.MinResponseTime = duration
	}
	if duration > m.MaxResponseTime {
		m.MaxResponseTime = duration
	}
}

/* RecordAnalysis records a completed analysis */
func (m *Metrics) RecordAnalysis(sportType string, score float64, degraded bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalAnalyses++
	m.CompletedAnalyses++
	if degraded {
		m.DegradedFeedback++
	}

	m.SportCounts[sportType]++
	m.ScoreSum += score
	m.ScoreCount++
}

/* RecordAnalysisFailure records a failed analysis */
func (m *Metrics) RecordAnalysisFailure(errorCode string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalAnalyses++
	m.FailedAnalyses++
	m.ErrorCounts[errorCode]++
}

/* RecordError records an error */
func (m *Metrics) RecordError(errorType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ErrorCounts[errorType]++
}

/* GetStats returns current statistics */
func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	avgResponseTime := time.Duration(0)
	if m.TotalRequests > 0 {
		avgResponseTime = m.TotalResponseTime / time.Duration(m.TotalRequests)
	}

	avgScore := 0.0
	if m.ScoreCount > 0 {
		avgScore = m.ScoreSum / float64(m.ScoreCount)
	}

	return map[string]interface{}{
		"requests": map[string]interface{}{
			"total":      m.TotalRequests,
			"successful": m.SuccessfulRequests,
			"failed":     m.FailedRequests,
		},
		"response_time": map[string]interface{}{
			"avg_ms": avgResponseTime.Milliseconds(),
			"min_ms": m.MinResponseTime.Milliseconds(),
			"max_ms": m.MaxResponseTime.Milliseconds(),
		},
		"analyses": map[string]interface{}{
			"total":             m.TotalAnalyses,
			"completed":         m.CompletedAnalyses,
			"failed":            m.FailedAnalyses,
			"degraded_feedback": m.DegradedFeedback,
			"avg_score":         avgScore,
		},
		"sports":    m.SportCounts,
		"endpoints": m.EndpointCounts,
		"errors":    m.ErrorCounts,
	}
}

/* Reset resets all metrics */
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalRequests = 0
	m.SuccessfulRequests = 0
	m.FailedRequests = 0
	m.TotalResponseTime = 0
	m.MinResponseTime = time.Hour
	m.MaxResponseTime = 0
	m.TotalAnalyses = 0
	m.CompletedAnalyses = 0
	m.FailedAnalyses = 0
	m.DegradedFeedback = 0
	m.ScoreSum = 0
	m.ScoreCount = 0
	m.EndpointCounts = make(map[string]int64)
	m.EndpointErrors = make(map[string]int64)
	m.SportCounts = make(map[string]int64)
	m.ErrorCounts = make(map[string]int64)
}
