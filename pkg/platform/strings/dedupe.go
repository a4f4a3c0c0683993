// Package strings provides string helpers shared by config and request parsing.
package strings

import (
	"strings"
)

// DedupeAndTrim removes duplicates and blanks, trimming each element.
// Order is preserved.
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}
	return result
}

// SplitList splits a comma separated setting such as CORS_ALLOWED_ORIGINS.
// A blank input yields nil.
func SplitList(raw string) []string {
	out := DedupeAndTrim(strings.Split(raw, ","))
	if len(out) == 0 {
		return nil
	}
	return out
}
