// ABOUTME: Output helpers shared by lift commands.
// ABOUTME: Short IDs, padding, truncation, weights and date parsing.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/lift/internal/storage"
)

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func formatSet(reps int, weight float64) string {
	return fmt.Sprintf("%d x %s", reps, storage.FormatWeight(weight))
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.ParseInLocation(f, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}
