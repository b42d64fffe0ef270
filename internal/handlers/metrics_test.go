package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/motionlab/MotionLab/api/internal/metrics"
)

func TestMetricsHandlers_GetStats(t *testing.T) {
	metrics.GetGlobalMetrics().Reset()
	metrics.GetGlobalMetrics().RecordRequest("/api/v1/analyze", true, 12*time.Millisecond)
	metrics.GetGlobalMetrics().RecordAnalysis("GOLF", 83.1, false)

	h := NewMetricsHandlers()
	req := httptest.NewRequest("GET", "/api/v1/stats", nil)
	rec := httptest.NewRecorder()
	h.GetStats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var stats map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	for _, field := range []string{"requests", "response_time", "endpoints", "errors", "analyses", "sports"} {
		if stats[field] == nil {
			t.Errorf("Expected stats to contain field %s", field)
		}
	}

	requests := stats["requests"].(map[string]interface{})
	if requests["total"].(float64) != 1 {
		t.Errorf("Expected total 1, got %v", requests["total"])
	}
	analyses := stats["analyses"].(map[string]interface{})
	if analyses["completed"].(float64) != 1 {
		t.Errorf("Expected 1 completed analysis, got %v", analyses["completed"])
	}
}

func TestMetricsHandlers_ResetStats(t *testing.T) {
	metrics.GetGlobalMetrics().RecordRequest("/api/v1/analyze", true, 5*time.Millisecond)

	h := NewMetricsHandlers()
	req := httptest.NewRequest("POST", "/api/v1/stats/reset", nil)
	rec := httptest.NewRecorder()
	h.ResetStats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	var result map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result["message"] != "Stats reset" {
		t.Error("Expected reset confirmation message")
	}

	stats := metrics.GetGlobalMetrics().GetStats()
	requests := stats["requests"].(map[string]interface{})
	if requests["total"].(int64) != 0 {
		t.Errorf("Expected total 0 after reset, got %v", requests["total"])
	}
}
