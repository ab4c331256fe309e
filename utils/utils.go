package utils

import (
	"strings"
	"time"
)

// LeadingInt parses the leading integer of s the way a browser's parseInt does:
// surrounding spaces and an optional sign are accepted, parsing stops at the first
// non-digit, and no digits at all yields 0.
func LeadingInt(s string) int {
	s = strings.TrimSpace(s)
	sign := 1
	if s != "" && (s[0] == '-' || s[0] == '+') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
	}
	return sign * n
}

// Today formats now as an ISO calendar date.
func Today(now time.Time) string {
	return now.Format("2006-01-02")
}

// ContainsFold is a case-insensitive substring test.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
