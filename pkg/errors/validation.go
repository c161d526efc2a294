package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateDenominator checks that a fraction denominator is one of the
// ruler subdivisions offered by the input surfaces (2, 4, 8 or 16).
func ValidateDenominator(d int) error {
	switch d {
	case 2, 4, 8, 16:
		return nil
	}
	return New(ErrCodeInvalidInput, "denominator must be 2, 4, 8 or 16 (got %d)", d)
}

// profileNameRegex matches branding profile names as used in config keys.
var profileNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// ValidateProfileName validates a branding profile name.
//
// Profile names are config table keys, so they are restricted to lowercase
// ASCII letters, digits, dashes and underscores, starting with a letter.
func ValidateProfileName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidProfile, "profile name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidProfile, "profile name too long (max 64 characters)")
	}
	if !profileNameRegex.MatchString(name) {
		return New(ErrCodeInvalidProfile, "invalid profile name: %q", name)
	}
	return nil
}

// ValidateOutputDir validates a directory that exported files are written to.
//
// Validation rules:
//   - No null bytes or control characters
//   - Maximum length of 500 characters
//
// An empty directory means the current working directory and is accepted.
func ValidateOutputDir(dir string) error {
	const maxPathLength = 500
	if len(dir) > maxPathLength {
		return New(ErrCodeInvalidInput, "output directory too long (max %d characters)", maxPathLength)
	}
	for _, r := range dir {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "output directory contains invalid characters")
		}
	}
	return nil
}

// ValidateLogoRef validates a logo reference from configuration.
// It must be empty (no logo), an http(s) URL, or a file path without
// null bytes.
func ValidateLogoRef(ref string) error {
	if ref == "" {
		return nil
	}
	if strings.Contains(ref, "\x00") {
		return New(ErrCodeInvalidConfig, "logo path contains a null byte")
	}
	if strings.Contains(ref, "://") && !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		return New(ErrCodeInvalidConfig, "logo URL must use http or https scheme: %q", ref)
	}
	return nil
}
