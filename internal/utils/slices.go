package utils

import "strings"

func UniqueTrimmedStrings(input []string) []string {
	seen := make(map[string]struct{})
	var result []string

	for _, s := range input {
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			continue // optional: skip empty strings
		}
		if _, exists := seen[trimmed]; !exists {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}
