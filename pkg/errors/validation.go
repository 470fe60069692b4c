package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// typeTagRegex matches chart type tags such as "bar-chart" or "table-vis".
var typeTagRegex = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)

// ValidateTypeTag validates a chart type tag used for registration and requests.
//
// Tags are lowercase, dash separated and at most 64 characters long.
func ValidateTypeTag(tag string) error {
	if tag == "" {
		return New(ErrCodeInvalidDescriptor, "chart type cannot be empty")
	}
	if len(tag) > 64 {
		return New(ErrCodeInvalidDescriptor, "chart type too long (max 64 characters)")
	}
	if !typeTagRegex.MatchString(tag) {
		return New(ErrCodeInvalidDescriptor, "invalid chart type: %q", tag)
	}
	return nil
}

// ValidateOptionKey validates an option or query parameter name.
// It rejects names that would corrupt a query string or an HTML attribute.
func ValidateOptionKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidOption, "option name cannot be empty")
	}
	if len(key) > 128 {
		return New(ErrCodeInvalidOption, "option name too long (max 128 characters)")
	}
	for _, r := range key {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidOption, "option name contains invalid characters")
		}
	}
	if strings.ContainsAny(key, "&=?#\"'<>") {
		return New(ErrCodeInvalidOption, "option name contains reserved characters: %q", key)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidSource, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidSource, "URL must use http or https scheme")
	}

	for _, r := range rawURL {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidSource, "URL contains invalid characters")
		}
	}

	return nil
}

// ValidateDimensions checks a requested viewport size.
// Zero means "use the chart default"; negative or absurd sizes are rejected.
func ValidateDimensions(width, height float64) error {
	const maxDimension = 20000
	if width < 0 || height < 0 {
		return New(ErrCodeInvalidOption, "dimensions cannot be negative (%gx%g)", width, height)
	}
	if width > maxDimension || height > maxDimension {
		return New(ErrCodeInvalidOption, "dimensions too large (max %d)", maxDimension)
	}
	return nil
}
