// ABOUTME: Structured logger construction for the CLI and MCP server.
// ABOUTME: Wraps charmbracelet/log with level parsing and a discard logger for tests.
package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultLevel is used when the configured level is empty or unknown.
const DefaultLevel = log.WarnLevel

// New builds a logger writing to w at the named level.
func New(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          "lift",
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	logger.SetLevel(ParseLevel(level))
	return logger
}

// ParseLevel maps a level name to a log.Level, falling back to DefaultLevel.
func ParseLevel(level string) log.Level {
	if strings.TrimSpace(level) == "" {
		return DefaultLevel
	}
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return DefaultLevel
	}
	return lvl
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
