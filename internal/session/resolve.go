// ABOUTME: Reference resolution for exercises and sets inside a live session.
// ABOUTME: Accepts 1-based positions, IDs, unique ID prefixes and exercise names.
package session

import (
	"strconv"
	"strings"

	"github.com/harperreed/lift/internal/models"
)

// ResolveExercise finds an exercise log by position, ID, name or unique ID prefix.
func ResolveExercise(ws models.WorkoutSession, ref string) (models.ExerciseLog, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.ExerciseLog{}, false
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n >= 1 && n <= len(ws.Exercises) {
			return ws.Exercises[n-1], true
		}
		return models.ExerciseLog{}, false
	}
	key := models.NormalizeName(ref)
	for _, ex := range ws.Exercises {
		if ex.ID == ref || models.NormalizeName(ex.Name) == key {
			return ex, true
		}
	}
	return byPrefix(ws.Exercises, ref, func(ex models.ExerciseLog) string { return ex.ID })
}

// ResolveSet finds a set log by position, ID or unique ID prefix.
func ResolveSet(ex models.ExerciseLog, ref string) (models.SetLog, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.SetLog{}, false
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n >= 1 && n <= len(ex.Sets) {
			return ex.Sets[n-1], true
		}
		return models.SetLog{}, false
	}
	for _, s := range ex.Sets {
		if s.ID == ref {
			return s, true
		}
	}
	return byPrefix(ex.Sets, ref, func(s models.SetLog) string { return s.ID })
}

// Locate resolves an exercise and set reference pair against the live session.
func (e *Engine) Locate(exerciseRef, setRef string) (exerciseID, setID string, err error) {
	ws, ok := e.Current()
	if !ok {
		return "", "", ErrNoActiveSession
	}
	ex, ok := ResolveExercise(ws, exerciseRef)
	if !ok {
		return "", "", ErrNotFound
	}
	s, ok := ResolveSet(ex, setRef)
	if !ok {
		return "", "", ErrNotFound
	}
	return ex.ID, s.ID, nil
}

func byPrefix[T any](items []T, prefix string, id func(T) string) (T, bool) {
	var match T
	count := 0
	lower := strings.ToLower(prefix)
	for _, item := range items {
		if strings.HasPrefix(strings.ToLower(id(item)), lower) {
			match = item
			count++
		}
	}
	if count != 1 {
		var zero T
		return zero, false
	}
	return match, true
}
