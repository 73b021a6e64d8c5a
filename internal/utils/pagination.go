// Package utils provides small helpers shared across layers, independent of
// domain logic.
package utils

import "strconv"

// AtoiDefault converts a string to an int, returning def when the string is
// empty or not a number. The handlers use it for optional query knobs like
// the ?limit= tail window on message history, where a garbled value should
// mean "default", not 400.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
