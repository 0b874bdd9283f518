package utils

import "strings"

// SplitCSV splits a comma-separated flag value into trimmed, non-empty parts.
// An empty input yields nil.
func SplitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Truncate shortens s to at most n bytes, marking the cut with "...".
func Truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Mark renders a boolean as a check or cross.
func Mark(b bool) string {
	if b {
		return "✓"
	}
	return "✗"
}
