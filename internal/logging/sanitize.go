package logging

import (
	"net/url"
	"regexp"
	"strings"
)

/* Field keys whose values must never reach the log output. Video URLs
   are handled separately since signed acquisition links carry tokens in
   the query string. */
var sensitiveKeyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(password|passwd|pwd)`),
	regexp.MustCompile(`(?i)(api[_-]?key|apikey)`),
	regexp.MustCompile(`(?i)(secret|token|auth)`),
	regexp.MustCompile(`(?i)(credential|cred)`),
}

var likelyTokenPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{32,}$`)

/* Request and record IDs are UUIDs and must survive sanitization */
var uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

/* SanitizeValue redacts a field value when its key or shape looks
   sensitive. URL values keep scheme, host and path but lose the query. */
func SanitizeValue(key string, value interface{}) interface{} {
	for _, pattern := range sensitiveKeyPatterns {
		if pattern.MatchString(key) {
			return "[REDACTED]"
		}
	}

	str, ok := value.(string)
	if !ok {
		return value
	}

	if strings.Contains(key, "url") {
		return stripQuery(str)
	}

	if likelyTokenPattern.MatchString(str) && !uuidPattern.MatchString(str) {
		return "[REDACTED]"
	}

	return value
}

/* sanitizeFields returns a copy of fields with sensitive values redacted.
   The input map is never mutated since callers may reuse it. */
func sanitizeFields(fields map[string]interface{}) map[string]interface{} {
	if len(fields) == 0 {
		return fields
	}

	clean := make(map[string]interface{}, len(fields))
	for key, value := range fields {
		if nested, ok := value.(map[string]interface{}); ok {
			clean[key] = sanitizeFields(nested)
			continue
		}
		clean[key] = SanitizeValue(key, value)
	}
	return clean
}

/* stripQuery drops the query and fragment from a URL string. Signed
   video links expire but still should not land in log storage. */
func stripQuery(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.RawQuery == "" {
		return raw
	}
	parsed.RawQuery = ""
	parsed.Fragment = ""
	return parsed.String()
}
