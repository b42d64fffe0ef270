package validation

import (
	"fmt"
	"strings"
)

/* MaxIdentifierLength bounds motion IDs and sport names */
const MaxIdentifierLength = 128

/* ValidateIdentifier validates an identifier such as a motion ID or sport type.
   Identifiers are non-empty, bounded in length, and limited to letters,
   digits, underscores, and hyphens. */
func ValidateIdentifier(s, fieldName string) error {
	if s == "" {
		return fmt.Errorf("%s is required and cannot be empty", fieldName)
	}

	if strings.TrimSpace(s) != s {
		return fmt.Errorf("%s cannot contain leading or trailing whitespace", fieldName)
	}

	if len(s) > MaxIdentifierLength {
		return fmt.Errorf("%s exceeds maximum length of %d characters", fieldName, MaxIdentifierLength)
	}

	for _, r := range s {
		if !isIdentifierRune(r) {
			return fmt.Errorf("%s contains invalid character %q", fieldName, r)
		}
	}

	return nil
}

/* ValidateIdentifierOptional validates an identifier but allows it to be empty */
func ValidateIdentifierOptional(s, fieldName string) error {
	if s == "" {
		return nil
	}
	return ValidateIdentifier(s, fieldName)
}

func isIdentifierRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '_' || r == '-':
		return true
	}
	return false
}
