package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

/* ValidateFilePath validates a file path for safety */
func ValidateFilePath(path, fieldName string) error {
	if path == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}

	path = strings.TrimSpace(path)

	/* Check for path traversal attempts */
	if strings.Contains(path, "..") {
		return fmt.Errorf("%s contains path traversal attempt: %s", fieldName, path)
	}

	/* Absolute paths must exist and be readable */
	if filepath.IsAbs(path) {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("%s points to non-existent file: %w", fieldName, err)
		}
	}

	/* Check for null bytes */
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%s contains null byte", fieldName)
	}

	return nil
}

/* ValidateFilePathRequired validates a file path and ensures it's not empty */
func ValidateFilePathRequired(path, fieldName string) error {
	if path == "" {
		return fmt.Errorf("%s is required and cannot be empty", fieldName)
	}
	return ValidateFilePath(path, fieldName)
}
