// ABOUTME: Export and import of routines and workout history.
// ABOUTME: Supports JSON and YAML round trips and a Markdown report.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/lift/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportVersion is the document format version written by this build.
const ExportVersion = "1.0"

// ExportData represents the full export format for lift data.
type ExportData struct {
	Version    string                  `json:"version" yaml:"version"`
	ExportedAt time.Time               `json:"exportedAt" yaml:"exported_at"`
	Tool       string                  `json:"tool" yaml:"tool"`
	Routines   []models.Routine        `json:"routines" yaml:"routines"`
	Sessions   []models.WorkoutSession `json:"sessions" yaml:"sessions"`
}

// NewExport bundles routines and sessions for export.
func NewExport(routines []models.Routine, sessions []models.WorkoutSession) *ExportData {
	if routines == nil {
		routines = []models.Routine{}
	}
	if sessions == nil {
		sessions = []models.WorkoutSession{}
	}
	return &ExportData{
		Version:    ExportVersion,
		ExportedAt: time.Now().UTC(),
		Tool:       "lift",
		Routines:   routines,
		Sessions:   sessions,
	}
}

// JSON encodes the export as indented JSON.
func (e *ExportData) JSON() ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}

// YAML encodes the export as YAML.
func (e *ExportData) YAML() ([]byte, error) {
	return yaml.Marshal(e)
}

// ParseExport decodes a JSON or YAML export document.
func ParseExport(data []byte) (*ExportData, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty export document")
	}

	var out ExportData
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &out); err != nil {
			return nil, fmt.Errorf("unmarshal JSON: %w", err)
		}
	} else if err := yaml.Unmarshal(trimmed, &out); err != nil {
		return nil, fmt.Errorf("unmarshal YAML: %w", err)
	}
	if out.Tool != "" && out.Tool != "lift" {
		return nil, fmt.Errorf("export was written by %q, not lift", out.Tool)
	}
	return &out, nil
}

// Markdown renders routines and sessions as a readable report. Sessions
// started before since are left out when since is set.
func (e *ExportData) Markdown(since *time.Time) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Lift Export - %s\n\n", e.ExportedAt.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", e.ExportedAt.Format(time.RFC3339)))

	sb.WriteString("## Routines\n\n")
	if len(e.Routines) == 0 {
		sb.WriteString("_No routines._\n\n")
	}
	for _, r := range e.Routines {
		sb.WriteString(fmt.Sprintf("### %s\n\n", r.Name))
		if len(r.Exercises) == 0 {
			sb.WriteString("_No exercises._\n\n")
			continue
		}
		sb.WriteString("| Exercise | Rest | Sets |\n")
		sb.WriteString("|----------|------|------|\n")
		for _, ex := range r.Exercises {
			sets := make([]string, 0, len(ex.Sets))
			for _, s := range ex.Sets {
				sets = append(sets, fmt.Sprintf("%d × %s", s.Reps, FormatWeight(s.Weight)))
			}
			sb.WriteString(fmt.Sprintf("| %s | %ds | %s |\n", ex.Name, ex.RestTime, strings.Join(sets, ", ")))
		}
		sb.WriteString("\n")
	}

	sessions := e.Sessions
	if since != nil {
		sessions = make([]models.WorkoutSession, 0, len(e.Sessions))
		for _, ws := range e.Sessions {
			if !ws.StartTime.Before(*since) {
				sessions = append(sessions, ws)
			}
		}
	}

	if len(sessions) > 0 {
		sb.WriteString("## Sessions\n\n")
		sb.WriteString("| Date | Routine | Duration | Sets | Volume |\n")
		sb.WriteString("|------|---------|----------|------|--------|\n")
		for _, ws := range sessions {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %d | %s |\n",
				ws.StartTime.Local().Format("2006-01-02 15:04"),
				ws.RoutineName,
				models.FormatDuration(ws.Duration),
				ws.TotalSetsCompleted,
				FormatWeight(ws.TotalVolume)))
		}
	}

	return sb.String()
}

// FormatWeight renders a weight without trailing zeros.
func FormatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}
