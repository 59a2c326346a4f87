package common

import (
	"strconv"
	"strings"
)

// ParsePositiveInt parses a positive integer query value, falling back when
// the input is absent, malformed, or not positive. The bool reports whether
// the input itself was used.
func ParsePositiveInt(value string, fallback int) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, false
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback, false
	}
	return parsed, true
}
