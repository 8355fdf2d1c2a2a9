// Package strings provides the exact-match deduplication helpers used for
// contact names and emails. Phone numbers need fuzzy matching and go through
// internal/phone instead; conflating the two loses real duplicates.
package strings

import (
	"strings"
)

// DedupeAndTrim removes duplicates and empty strings from a slice, trimming
// whitespace from each element. First occurrence wins; order is preserved.
// Used for contact display names, where case is significant.
//
// Example:
//
//	DedupeAndTrim([]string{"  Ada ", "Grace", "Ada", "", "  "})
//	// Returns: []string{"Ada", "Grace"}
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

// DedupeAndTrimLower is like DedupeAndTrim but also lowercases each element.
// Used for email addresses, which compare case-insensitively.
//
// Example:
//
//	DedupeAndTrimLower([]string{"  A@x.com ", "b@x.com", "a@X.com"})
//	// Returns: []string{"a@x.com", "b@x.com"}
func DedupeAndTrimLower(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.ToLower(strings.TrimSpace(v))
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
