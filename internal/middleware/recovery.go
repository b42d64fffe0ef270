package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/motionlab/MotionLab/api/internal/logging"
)

// RecoveryMiddleware recovers from handler panics and responds with the
// standard error envelope
func RecoveryMiddleware(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					requestID := GetRequestID(r.Context())
					logger.Error("Panic recovered", nil, map[string]interface{}{
						"error":      err,
						"path":       r.URL.Path,
						"request_id": requestID,
					})

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]interface{}{
						"success":    false,
						"error_code": "SYS_INTERNAL",
						"message":    "Internal server error",
						"retryable":  false,
						"request_id": requestID,
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
