package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MaxCodeLength bounds a single code submitted for classification.
	MaxCodeLength = 64
	// MaxBatchSize bounds the number of codes in one classify request.
	MaxBatchSize = 1000
	// MaxListLimit bounds list endpoints.
	MaxListLimit = 500
)

var (
	// Detect HTML/script tags
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

	// Control characters other than tab
	controlPattern = regexp.MustCompile(`[\x00-\x08\x0a-\x1f\x7f]`)
)

// ValidateCode validates a raw code submitted for classification. Any text
// is a valid code; only size and control characters are checked.
func ValidateCode(code string) error {
	if !utf8.ValidString(code) {
		return errors.New("code is not valid UTF-8")
	}

	if utf8.RuneCountInString(code) > MaxCodeLength {
		return fmt.Errorf("code too long (max %d characters)", MaxCodeLength)
	}

	if controlPattern.MatchString(code) {
		return errors.New("code contains control characters")
	}

	return nil
}

// ValidateBatch validates a list of codes. A nil entry is an absent code.
func ValidateBatch(codes []*string) map[string][]string {
	fieldErrors := make(map[string][]string)

	if len(codes) > MaxBatchSize {
		fieldErrors["values"] = append(fieldErrors["values"],
			fmt.Sprintf("too many values (max %d)", MaxBatchSize))
		return fieldErrors
	}

	for i, code := range codes {
		if code == nil {
			continue
		}
		if err := ValidateCode(*code); err != nil {
			key := fmt.Sprintf("values[%d]", i)
			fieldErrors[key] = append(fieldErrors[key], err.Error())
		}
	}

	return fieldErrors
}

// ValidateLimit validates list limits
func ValidateLimit(limit int) error {
	if limit < 1 {
		return errors.New("limit must be positive")
	}

	if limit > MaxListLimit {
		return fmt.Errorf("limit too large (max %d)", MaxListLimit)
	}

	return nil
}

// SanitizeInput removes HTML tags and other potentially dangerous content
func SanitizeInput(input string) string {
	// Remove HTML tags
	sanitized := htmlTagPattern.ReplaceAllString(input, "")

	// Trim whitespace
	sanitized = strings.TrimSpace(sanitized)

	return sanitized
}
