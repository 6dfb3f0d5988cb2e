package errors

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
)

// ValidateDegreeOrder checks that l is a valid angular degree and m a valid
// azimuthal order for it: l ≥ 0 and |m| ≤ l.
func ValidateDegreeOrder(l, m int) error {
	if l < 0 {
		return New(ErrCodeInvalidDegree, "angular degree must be non-negative, got %d", l)
	}
	if m < -l || m > l {
		return New(ErrCodeInvalidOrder, "azimuthal order must satisfy |m| <= l, got l=%d m=%d", l, m)
	}
	return nil
}

// ValidateFormat checks that format is one of allowed (case-insensitive).
func ValidateFormat(format string, allowed ...string) error {
	if slices.Contains(allowed, strings.ToLower(format)) {
		return nil
	}
	return New(ErrCodeInvalidFormat, "invalid format: %s (must be one of %s)", format, strings.Join(allowed, ", "))
}

// ValidatePath validates a local file path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// isotopeRegex matches an element symbol followed by a mass number, in
// either order: "Fe56", "56Fe", "C12".
var isotopeRegex = regexp.MustCompile(`^(?:[A-Z][a-z]?[0-9]{1,3}|[0-9]{1,3}[A-Z][a-z]?)$`)

// ValidateIsotope validates an isotope label such as "Fe56" or "56Fe".
func ValidateIsotope(label string) error {
	if label == "" {
		return New(ErrCodeInvalidIsotope, "isotope cannot be empty")
	}
	if !isotopeRegex.MatchString(label) {
		return New(ErrCodeInvalidIsotope, "invalid isotope %q (expected e.g. Fe56)", label)
	}
	return nil
}
