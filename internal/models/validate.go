// ABOUTME: Name validation and numeric sanitizing for user input.
// ABOUTME: Invalid numbers never error; they fall back to a caller-chosen default.
package models

import (
	"math"
	"strconv"
	"strings"
)

// maxInt bounds integer fields so float to int conversion stays defined.
const maxInt = math.MaxInt32

// IsValidName reports whether the trimmed name length lies within [min, max].
func IsValidName(s string, min, max int) bool {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return false
	}
	n := len([]rune(trimmed))
	return n >= min && n <= max
}

// NormalizeName is the comparison key for name uniqueness.
func NormalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SanitizeNumber returns v unless it is NaN, infinite or negative, in which
// case fallback is returned. Zero is valid.
func SanitizeNumber(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fallback
	}
	return v
}

// SanitizeInt sanitizes v and floors it to an int. Values too large for an
// int field are treated as invalid.
func SanitizeInt(v float64, fallback int) int {
	s := SanitizeNumber(v, float64(fallback))
	if s > maxInt {
		return fallback
	}
	return int(math.Floor(s))
}

// ParseNumber converts text field input to a sanitized number.
func ParseNumber(text string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return fallback
	}
	return SanitizeNumber(v, fallback)
}
