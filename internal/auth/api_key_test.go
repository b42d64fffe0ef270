package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/motionlab/MotionLab/api/internal/logging"
)

func testLogger() *logging.Logger {
	return logging.NewLogger("error", "json", "stderr")
}

func hashKey(t *testing.T, key string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash key: %v", err)
	}
	return string(hash)
}

func TestKeyChecker_VerifyKey(t *testing.T) {
	checker := NewKeyChecker([]string{
		hashKey(t, "first-key"),
		hashKey(t, "second-key"),
	}, testLogger())

	if !checker.Enabled() {
		t.Error("Expected checker to be enabled with configured hashes")
	}
	if !checker.VerifyKey("first-key") {
		t.Error("Expected first key to verify")
	}
	if !checker.VerifyKey("second-key") {
		t.Error("Expected second key to verify")
	}
	if checker.VerifyKey("wrong-key") {
		t.Error("Expected unknown key to fail")
	}
}

func TestKeyChecker_Disabled(t *testing.T) {
	checker := NewKeyChecker(nil, testLogger())

	if checker.Enabled() {
		t.Error("Expected checker without hashes to be disabled")
	}
	if checker.VerifyKey("anything") {
		t.Error("Expected verification to fail with no hashes")
	}
}

func TestKeyPrefix(t *testing.T) {
	if got := KeyPrefix("abcdefghijkl"); got != "abcdefgh" {
		t.Errorf("Expected prefix abcdefgh, got %q", got)
	}
	if got := KeyPrefix("short"); got != "short" {
		t.Errorf("Expected short key returned whole, got %q", got)
	}
}

func TestMiddleware(t *testing.T) {
	checker := NewKeyChecker([]string{hashKey(t, "valid-key")}, testLogger())
	handler := Middleware(checker)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		key        string
		wantStatus int
	}{
		{"valid key", "valid-key", http.StatusOK},
		{"invalid key", "wrong-key", http.StatusUnauthorized},
		{"missing key", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/sports", nil)
			if tt.key != "" {
				req.Header.Set("X-API-Key", tt.key)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestMiddleware_DisabledPassesThrough(t *testing.T) {
	checker := NewKeyChecker(nil, testLogger())
	handler := Middleware(checker)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/sports", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Expected request without key to pass when auth disabled, got %d", rec.Code)
	}
}
