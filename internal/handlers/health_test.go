package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeProber struct {
	err error
}

func (f *fakeProber) Health(ctx context.Context) error {
	return f.err
}

func getHealth(t *testing.T, h *HealthHandlers) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	h.GetHealth(rec, req)

	var payload map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return rec.Code, payload
}

func TestHealthHandlers_GetHealth(t *testing.T) {
	h := NewHealthHandlers(nil, &fakeProber{}, "openai")

	code, payload := getHealth(t, h)
	if code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", code)
	}
	if payload["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", payload["status"])
	}
	if payload["service"] != "motionlab-api" {
		t.Errorf("Expected service motionlab-api, got %v", payload["service"])
	}
	if payload["version"] != ServiceVersion {
		t.Errorf("Expected version %s, got %v", ServiceVersion, payload["version"])
	}

	components, ok := payload["components"].(map[string]interface{})
	if !ok {
		t.Fatal("Expected a components map")
	}
	store := components["store"].(map[string]interface{})
	if store["status"] != "not_configured" {
		t.Errorf("Expected store not_configured, got %v", store["status"])
	}
	poseComponent := components["pose_service"].(map[string]interface{})
	if poseComponent["status"] != "ok" {
		t.Errorf("Expected pose_service ok, got %v", poseComponent["status"])
	}
	feedback := components["feedback"].(map[string]interface{})
	if feedback["mode"] != "openai" {
		t.Errorf("Expected feedback mode openai, got %v", feedback["mode"])
	}
}

func TestHealthHandlers_GetHealth_DegradedPose(t *testing.T) {
	h := NewHealthHandlers(nil, &fakeProber{err: errors.New("connection refused")}, "noop")

	code, payload := getHealth(t, h)
	if code != http.StatusOK {
		t.Fatalf("Expected status 200 even when degraded, got %d", code)
	}
	if payload["status"] != "degraded" {
		t.Errorf("Expected status degraded, got %v", payload["status"])
	}

	components := payload["components"].(map[string]interface{})
	poseComponent := components["pose_service"].(map[string]interface{})
	if poseComponent["status"] != "unreachable" {
		t.Errorf("Expected pose_service unreachable, got %v", poseComponent["status"])
	}
	if poseComponent["error"] == "" {
		t.Error("Expected the probe error to be surfaced")
	}
}

func TestHealthHandlers_GetHealth_NoDependencies(t *testing.T) {
	h := NewHealthHandlers(nil, nil, "noop")

	code, payload := getHealth(t, h)
	if code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", code)
	}
	if payload["status"] != "ok" {
		t.Errorf("Expected unconfigured dependencies to not degrade health, got %v", payload["status"])
	}
}
