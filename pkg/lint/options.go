package lint

import (
	"strconv"
	"strings"
)

// Option values arrive from YAML, environment variables, or Go code, so the
// helpers below accept the shapes each of those produce.

// GetOption extracts a typed option with a default value.
func GetOption[T any](opts map[string]any, key string, defaultVal T) T {
	v, ok := opts[key]
	if !ok {
		return defaultVal
	}
	if typed, ok := v.(T); ok {
		return typed
	}
	return defaultVal
}

// GetIntOption extracts an int option. Floats (JSON) and numeric strings
// (environment variables) are converted.
func GetIntOption(opts map[string]any, key string, defaultVal int) int {
	v, ok := opts[key]
	if !ok {
		return defaultVal
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetStringOption extracts a string option.
func GetStringOption(opts map[string]any, key string, defaultVal string) string {
	if s, ok := opts[key].(string); ok {
		return s
	}
	return defaultVal
}

// GetBoolOption extracts a bool option. The strings "true" and "false" are accepted.
func GetBoolOption(opts map[string]any, key string, defaultVal bool) bool {
	switch b := opts[key].(type) {
	case bool:
		return b
	case string:
		if parsed, err := strconv.ParseBool(b); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// GetStringSliceOption extracts a string slice option. A single string is
// split on commas.
func GetStringSliceOption(opts map[string]any, key string, defaultVal []string) []string {
	v, ok := opts[key]
	if !ok {
		return defaultVal
	}
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		result := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				result = append(result, str)
			}
		}
		return result
	case string:
		var result []string
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				result = append(result, part)
			}
		}
		return result
	default:
		return defaultVal
	}
}
