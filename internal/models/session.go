// ABOUTME: WorkoutSession, ExerciseLog and SetLog models for executed routines.
// ABOUTME: Includes the derived statistics shared by live updates and finished sessions.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// WorkoutSession is one execution of a routine. While live it is mutable
// working state; once IsFinished is set it is an immutable history record.
type WorkoutSession struct {
	ID                 string        `json:"id" yaml:"id"`
	RoutineID          string        `json:"routineId" yaml:"routine_id"`
	RoutineName        string        `json:"routineName" yaml:"routine_name"`
	Exercises          []ExerciseLog `json:"exercises" yaml:"exercises"`
	StartTime          time.Time     `json:"startTime" yaml:"start_time"`
	EndTime            *time.Time    `json:"endTime,omitempty" yaml:"end_time,omitempty"`
	Duration           int           `json:"duration" yaml:"duration"` // seconds
	TotalVolume        float64       `json:"totalVolume" yaml:"total_volume"`
	TotalSetsCompleted int           `json:"totalSetsCompleted" yaml:"total_sets_completed"`
	IsFinished         bool          `json:"isFinished" yaml:"is_finished"`
}

// ExerciseLog is the session's own copy of an exercise.
type ExerciseLog struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	RestTime int      `json:"restTime" yaml:"rest_time"`
	Sets     []SetLog `json:"sets" yaml:"sets"`
}

// SetLog is the session's own copy of a set.
type SetLog struct {
	ID          string     `json:"id" yaml:"id"`
	Reps        int        `json:"reps" yaml:"reps"`
	Weight      float64    `json:"weight" yaml:"weight"`
	IsCompleted bool       `json:"isCompleted" yaml:"is_completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty" yaml:"completed_at,omitempty"`
}

// Stats are the totals derived from a session's completed sets.
type Stats struct {
	TotalVolume        float64
	TotalSetsCompleted int
}

// NewSessionID returns a time-sortable session identifier.
func NewSessionID() string {
	return ulid.Make().String()
}

// ComputeStats scans every set and totals weight*reps over completed ones.
func ComputeStats(exercises []ExerciseLog) Stats {
	var st Stats
	for _, e := range exercises {
		for _, s := range e.Sets {
			if !s.IsCompleted {
				continue
			}
			st.TotalVolume += s.Weight * float64(s.Reps)
			st.TotalSetsCompleted++
		}
	}
	return st
}

// DurationSeconds returns whole seconds elapsed between start and now.
func DurationSeconds(start, now time.Time) int {
	d := now.Sub(start)
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}

// LogsFromExercises snapshots routine exercises into session logs with
// every set reset to incomplete.
func LogsFromExercises(exercises []Exercise) []ExerciseLog {
	logs := make([]ExerciseLog, len(exercises))
	for i, e := range exercises {
		sets := make([]SetLog, len(e.Sets))
		for j, s := range e.Sets {
			sets[j] = SetLog{
				ID:     s.ID,
				Reps:   s.Reps,
				Weight: s.Weight,
			}
		}
		logs[i] = ExerciseLog{
			ID:       e.ID,
			Name:     e.Name,
			RestTime: e.RestTime,
			Sets:     sets,
		}
	}
	return logs
}

// CloneLogs returns a deep copy of the exercise logs.
func CloneLogs(exercises []ExerciseLog) []ExerciseLog {
	out := make([]ExerciseLog, len(exercises))
	for i, e := range exercises {
		out[i] = e
		out[i].Sets = make([]SetLog, len(e.Sets))
		for j, s := range e.Sets {
			if s.CompletedAt != nil {
				t := *s.CompletedAt
				s.CompletedAt = &t
			}
			out[i].Sets[j] = s
		}
	}
	return out
}

// HasIDPrefix reports whether the session ID starts with prefix, ignoring case.
func (w WorkoutSession) HasIDPrefix(prefix string) bool {
	return prefix != "" && strings.HasPrefix(strings.ToLower(w.ID), strings.ToLower(prefix))
}

// FormatDuration renders seconds as m:ss, or h:mm:ss from one hour up.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h, m, s := seconds/3600, (seconds%3600)/60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
