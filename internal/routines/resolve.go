// ABOUTME: Reference resolution for routines, exercises and sets typed by users.
// ABOUTME: Accepts IDs, unique ID prefixes, names, and 1-based positions.
package routines

import (
	"strconv"
	"strings"

	"github.com/harperreed/lift/internal/models"
)

// Resolve finds a routine by exact ID, case-insensitive name, or unique ID prefix.
func (s *Store) Resolve(ref string) (models.Routine, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Routine{}, false
	}
	routines := s.Routines()

	for _, r := range routines {
		if r.ID == ref {
			return r, true
		}
	}
	key := models.NormalizeName(ref)
	for _, r := range routines {
		if models.NormalizeName(r.Name) == key {
			return r, true
		}
	}
	return uniquePrefix(routines, ref, func(r models.Routine) string { return r.ID })
}

// ResolveExercise finds an exercise in r by 1-based position, exact ID,
// case-insensitive name, or unique ID prefix.
func ResolveExercise(r models.Routine, ref string) (models.Exercise, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Exercise{}, false
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n >= 1 && n <= len(r.Exercises) {
			return r.Exercises[n-1], true
		}
		return models.Exercise{}, false
	}
	if i := r.FindExercise(ref); i >= 0 {
		return r.Exercises[i], true
	}
	key := models.NormalizeName(ref)
	for _, e := range r.Exercises {
		if models.NormalizeName(e.Name) == key {
			return e, true
		}
	}
	return uniquePrefix(r.Exercises, ref, func(e models.Exercise) string { return e.ID })
}

// ResolveSet finds a set in e by 1-based position, exact ID, or unique ID prefix.
func ResolveSet(e models.Exercise, ref string) (models.Set, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Set{}, false
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n >= 1 && n <= len(e.Sets) {
			return e.Sets[n-1], true
		}
		return models.Set{}, false
	}
	if i := e.FindSet(ref); i >= 0 {
		return e.Sets[i], true
	}
	return uniquePrefix(e.Sets, ref, func(s models.Set) string { return s.ID })
}

func uniquePrefix[T any](items []T, prefix string, id func(T) string) (T, bool) {
	var (
		match T
		count int
	)
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
