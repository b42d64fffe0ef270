package testing

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/motionlab/MotionLab/api/internal/pose"
)

/* IntegrationTestConfig holds configuration for integration tests */
type IntegrationTestConfig struct {
	PoseServiceURL string
	PoseServiceKey string
	SkipPose       bool
}

/* LoadIntegrationTestConfig loads integration test configuration from environment */
func LoadIntegrationTestConfig() *IntegrationTestConfig {
	return &IntegrationTestConfig{
		PoseServiceURL: getEnv("TEST_POSE_SERVICE_URL", "http://localhost:8090"),
		PoseServiceKey: getEnv("TEST_POSE_SERVICE_KEY", ""),
		SkipPose:       os.Getenv("SKIP_POSE_SERVICE") == "true",
	}
}

/* CreatePoseTestClient creates a pose service client for integration
   tests, skipping the test when the service is unreachable. */
func CreatePoseTestClient(t *testing.T, cfg *IntegrationTestConfig) *pose.Client {
	t.Helper()

	if cfg.SkipPose {
		t.Skip("Skipping test: pose service tests disabled")
		return nil
	}

	client := pose.NewClient(cfg.PoseServiceURL, cfg.PoseServiceKey, 10*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Health(ctx); err != nil {
		t.Skipf("Skipping test: cannot reach pose service: %v", err)
		return nil
	}

	return client
}

/* WaitForService waits for a service to become available */
func WaitForService(url string, timeout time.Duration) error {
	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil && resp.StatusCode < 500 {
			resp.Body.Close()
			return nil
		}
		time.Sleep(1 * time.Second)
	}

	return fmt.Errorf("service at %s did not become available within %v", url, timeout)
}
