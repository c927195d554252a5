package utils

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"moonlabel.dev/internal/classify"
)

// ParseIntParam retrieves an int value from the provided URL query parameters.
// If the key is not present it returns def; an invalid value is reported in fieldErrors.
func ParseIntParam(params url.Values, key string, def int, fieldErrors map[string][]string) (int, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := params.Get(key)
	if val == "" {
		return def, fieldErrors
	}

	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Invalid field value for field %q.", key))
		return def, fieldErrors
	}
	return n, fieldErrors
}

// ParseBoolParam retrieves a bool value from the provided URL query parameters.
// If the key is not present it returns false.
func ParseBoolParam(params url.Values, key string, fieldErrors map[string][]string) (bool, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := params.Get(key)
	if val == "" {
		return false, fieldErrors
	}

	b, err := strconv.ParseBool(strings.TrimSpace(val))
	if err != nil {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Invalid field value for field %q.", key))
	}
	return b, fieldErrors
}

// ParseCategoryParam retrieves an optional category filter. An absent
// parameter returns the empty category, meaning "all".
func ParseCategoryParam(params url.Values, key string, fieldErrors map[string][]string) (classify.Category, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := params.Get(key)
	if val == "" {
		return "", fieldErrors
	}

	category, ok := classify.ParseCategory(val)
	if !ok {
		fieldErrors[key] = append(fieldErrors[key],
			fmt.Sprintf("Invalid field value for field %q, use %q or %q.", key, classify.Marked, classify.Plain))
	}
	return category, fieldErrors
}

// OptionalParam returns a pointer to the parameter value, or nil when the
// key is absent. A present but empty value is returned as "".
func OptionalParam(params url.Values, key string) *string {
	values, ok := params[key]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}
