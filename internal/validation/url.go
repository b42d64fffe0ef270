package validation

import (
	"fmt"
	"net/url"
	"strings"
)

/* ValidateURL reports whether a string is an acceptable video URL.
   Only http and https are fetchable by the pose service, and embedded
   credentials are rejected so they cannot leak into stored requests. */
func ValidateURL(urlStr string) bool {
	if urlStr == "" {
		return false
	}

	parsed, err := url.Parse(strings.TrimSpace(urlStr))
	if err != nil {
		return false
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}

	if parsed.Host == "" {
		return false
	}

	if parsed.User != nil {
		return false
	}

	return true
}

/* ValidateURLRequired validates a URL and ensures it's not empty */
func ValidateURLRequired(urlStr, fieldName string) error {
	if urlStr == "" {
		return fmt.Errorf("%s is required and cannot be empty", fieldName)
	}

	if !ValidateURL(urlStr) {
		return fmt.Errorf("%s is not a valid URL", fieldName)
	}

	return nil
}
