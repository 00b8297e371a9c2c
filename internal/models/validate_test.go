// ABOUTME: Tests for name validation and number sanitizing.
// ABOUTME: Includes a randomized idempotence check for SanitizeNumber.
package models

import (
	"math"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
)

func TestIsValidName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"single char", "a", false},
		{"single char padded", "  a  ", false},
		{"two chars", "ab", true},
		{"padded two chars", "  ab ", true},
		{"normal", "Push Day", true},
		{"max length", strings.Repeat("x", 120), true},
		{"over max length", strings.Repeat("x", 121), false},
		{"multibyte counts runes", "çé", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidName(tt.input, MinNameLength, MaxNameLength); got != tt.want {
				t.Errorf("IsValidName(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	if got := NormalizeName("  Bench PRESS "); got != "bench press" {
		t.Errorf("NormalizeName = %q, want %q", got, "bench press")
	}
}

func TestSanitizeNumber(t *testing.T) {
	tests := []struct {
		name     string
		v        float64
		fallback float64
		want     float64
	}{
		{"positive", 12.5, 0, 12.5},
		{"zero is valid", 0, 60, 0},
		{"negative", -1, 0, 0},
		{"negative custom fallback", -5, 60, 60},
		{"NaN", math.NaN(), 7, 7},
		{"positive infinity", math.Inf(1), 3, 3},
		{"negative infinity", math.Inf(-1), 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeNumber(tt.v, tt.fallback); got != tt.want {
				t.Errorf("SanitizeNumber(%v, %v) = %v, want %v", tt.v, tt.fallback, got, tt.want)
			}
		})
	}
}

func TestSanitizeNumberIdempotent(t *testing.T) {
	faker := gofakeit.New(42)
	for i := 0; i < 500; i++ {
		x := faker.Float64Range(-1e6, 1e6)
		f := faker.Float64Range(-100, 100)
		once := SanitizeNumber(x, f)
		twice := SanitizeNumber(once, f)
		if once != twice {
			t.Fatalf("SanitizeNumber not idempotent for x=%v f=%v: %v != %v", x, f, once, twice)
		}
	}
}

func TestSanitizeInt(t *testing.T) {
	tests := []struct {
		name     string
		v        float64
		fallback int
		want     int
	}{
		{"whole", 8, 0, 8},
		{"fraction floors", 8.9, 0, 8},
		{"negative", -3, 60, 60},
		{"NaN", math.NaN(), 60, 60},
		{"too large", 1e300, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeInt(tt.v, tt.fallback); got != tt.want {
				t.Errorf("SanitizeInt(%v, %d) = %d, want %d", tt.v, tt.fallback, got, tt.want)
			}
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"60", 60},
		{" 62.5 ", 62.5},
		{"", 0},
		{"abc", 0},
		{"-10", 0},
		{"NaN", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseNumber(tt.input, 0); got != tt.want {
				t.Errorf("ParseNumber(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
