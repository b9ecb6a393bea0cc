package common

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ValidatePath validates that a path is absolute
func ValidatePath(path string) error {
	if !filepath.IsAbs(path) {
		return fmt.Errorf("path must be absolute: %s", path)
	}
	return nil
}

// ValidateNotEmpty validates that a string is not empty
func ValidateNotEmpty(value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("value cannot be empty")
	}
	return nil
}

// ValidatePositiveDuration validates that a duration is greater than zero
func ValidatePositiveDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("duration must be positive, got: %s", d)
	}
	return nil
}

// ValidateOneOf validates that value is one of the allowed choices
func ValidateOneOf(value string, allowed []string) error {
	for _, choice := range allowed {
		if value == choice {
			return nil
		}
	}
	return fmt.Errorf("must be one of %s, got: %q", strings.Join(allowed, ", "), value)
}
