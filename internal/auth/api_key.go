package auth

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/motionlab/MotionLab/api/internal/logging"
	"github.com/motionlab/MotionLab/api/internal/middleware"
)

// KeyChecker validates presented API keys against configured bcrypt
// hashes. An empty hash list disables authentication.
type KeyChecker struct {
	hashes []string
	logger *logging.Logger
}

// NewKeyChecker creates a key checker from configured hashes
func NewKeyChecker(hashes []string, logger *logging.Logger) *KeyChecker {
	return &KeyChecker{hashes: hashes, logger: logger}
}

// Enabled reports whether authentication is configured
func (c *KeyChecker) Enabled() bool {
	return len(c.hashes) > 0
}

// VerifyKey checks a presented key against every configured hash
func (c *KeyChecker) VerifyKey(key string) bool {
	for _, hash := range c.hashes {
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) == nil {
			return true
		}
	}
	return false
}

// KeyPrefix returns the loggable prefix of an API key
func KeyPrefix(key string) string {
	if len(key) < 8 {
		return key
	}
	return key[:8]
}

// Middleware enforces X-API-Key authentication
func Middleware(checker *KeyChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !checker.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get("X-API-Key")
			if key == "" {
				http.Error(w, "Missing API key", http.StatusUnauthorized)
				return
			}

			if !checker.VerifyKey(key) {
				checker.logger.Warn("Rejected API key", map[string]interface{}{
					"key_prefix": KeyPrefix(key),
					"path":       r.URL.Path,
					"request_id": middleware.GetRequestID(r.Context()),
				})
				http.Error(w, "Invalid API key", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
