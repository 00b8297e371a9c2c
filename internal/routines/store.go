// ABOUTME: Routine store owning routines, exercises and sets with validated CRUD.
// ABOUTME: Mutations are copy-on-write and persisted through a background kv.Writer.
package routines

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/harperreed/lift/internal/kv"
	"github.com/harperreed/lift/internal/models"
)

const (
	msgRoutineNotFound  = "Routine not found"
	msgExerciseNotFound = "Exercise not found"
	msgSetNotFound      = "Set not found"
)

// Store is the source of truth for routine definitions.
//
// Every mutation installs a new top-level slice and new nested slices along
// the modified path, so a slice returned by Routines is never changed later.
type Store struct {
	mu       sync.RWMutex
	routines []models.Routine
	loaded   bool

	storage kv.Storage
	writer  *kv.Writer
	logger  *log.Logger
}

// New creates an empty Store. Call Load before mutating to enable persistence.
func New(storage kv.Storage, writer *kv.Writer, logger *log.Logger) *Store {
	return &Store{
		routines: []models.Routine{},
		storage:  storage,
		writer:   writer,
		logger:   logger,
	}
}

// Load reads the persisted collection and enables persistence. On a storage
// or decode error the store stays empty and persistence stays off, so the
// durable copy is not overwritten.
func (s *Store) Load(ctx context.Context) error {
	value, found, err := s.storage.Get(ctx, kv.RoutinesKey)
	if err != nil {
		s.logger.Error("load routines failed", "err", err)
		return fmt.Errorf("load routines: %w", err)
	}

	routines := []models.Routine{}
	if found && strings.TrimSpace(value) != "" {
		if err := json.Unmarshal([]byte(value), &routines); err != nil {
			s.logger.Error("decode routines failed", "err", err)
			return fmt.Errorf("decode routines: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.routines = routines
	s.loaded = true
	s.logger.Debug("routines loaded", "count", len(routines))
	return nil
}

// Routines returns the current collection. Callers must not modify it.
func (s *Store) Routines() []models.Routine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.routines
}

// Count returns the number of routines.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.routines)
}

// GetRoutine looks up a routine by ID.
func (s *Store) GetRoutine(routineID string) (models.Routine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(routineID)
	if i < 0 {
		return models.Routine{}, false
	}
	return s.routines[i], true
}

// AddRoutine creates a routine with no exercises.
func (s *Store) AddRoutine(name string) models.Result {
	if !models.IsValidName(name, models.MinNameLength, models.MaxNameLength) {
		return models.Fail(nameLengthMessage("Routine"))
	}
	name = strings.TrimSpace(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.routineNameTaken(name, "") {
		return models.Fail(fmt.Sprintf("A routine named %q already exists", name))
	}

	r := models.NewRoutine(name)
	s.commit(appendCopy(s.routines, r))
	return models.OkWithID(fmt.Sprintf("Routine %q added", name), r.ID)
}

// UpdateRoutine renames a routine.
func (s *Store) UpdateRoutine(routineID, newName string) models.Result {
	if !models.IsValidName(newName, models.MinNameLength, models.MaxNameLength) {
		return models.Fail(nameLengthMessage("Routine"))
	}
	newName = strings.TrimSpace(newName)

	s.mu.Lock()
	defer s.mu.Unlock()

	ri := s.indexOf(routineID)
	if ri < 0 {
		return models.Fail(msgRoutineNotFound)
	}
	if s.routineNameTaken(newName, routineID) {
		return models.Fail(fmt.Sprintf("A routine named %q already exists", newName))
	}

	r := s.routines[ri]
	r.Name = newName
	s.commit(replaceAt(s.routines, ri, r))
	return models.Ok(fmt.Sprintf("Routine renamed to %q", newName))
}

// RemoveRoutine deletes a routine with all its exercises and sets.
func (s *Store) RemoveRoutine(routineID string) models.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	ri := s.indexOf(routineID)
	if ri < 0 {
		return models.Fail(msgRoutineNotFound)
	}

	name := s.routines[ri].Name
	s.commit(removeAt(s.routines, ri))
	return models.Ok(fmt.Sprintf("Routine %q removed", name))
}

// AddExercise appends an exercise with the default rest time.
func (s *Store) AddExercise(routineID, name string) models.Result {
	if !models.IsValidName(name, models.MinNameLength, models.MaxNameLength) {
		return models.Fail(nameLengthMessage("Exercise"))
	}
	name = strings.TrimSpace(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	ri := s.indexOf(routineID)
	if ri < 0 {
		return models.Fail(msgRoutineNotFound)
	}
	r := s.routines[ri]
	if exerciseNameTaken(r, name, "") {
		return models.Fail(fmt.Sprintf("Exercise %q already exists in this routine", name))
	}

	e := models.NewExercise(name)
	r.Exercises = appendCopy(r.Exercises, e)
	s.commit(replaceAt(s.routines, ri, r))
	return models.OkWithID(fmt.Sprintf("Exercise %q added", name), e.ID)
}

// UpdateExercise renames an exercise within its routine.
func (s *Store) UpdateExercise(routineID, exerciseID, newName string) models.Result {
	if !models.IsValidName(newName, models.MinNameLength, models.MaxNameLength) {
		return models.Fail(nameLengthMessage("Exercise"))
	}
	newName = strings.TrimSpace(newName)

	return s.withExercise(routineID, exerciseID, func(r models.Routine, e models.Exercise) (models.Exercise, models.Result) {
		if exerciseNameTaken(r, newName, exerciseID) {
			return e, models.Fail(fmt.Sprintf("Exercise %q already exists in this routine", newName))
		}
		e.Name = newName
		return e, models.Ok(fmt.Sprintf("Exercise renamed to %q", newName))
	})
}

// UpdateExerciseRestTime sets the rest interval in seconds. Invalid or
// negative input resets it to the default, not to the previous value.
func (s *Store) UpdateExerciseRestTime(routineID, exerciseID string, restTime float64) models.Result {
	rest := models.SanitizeInt(restTime, models.DefaultRestTime)

	return s.withExercise(routineID, exerciseID, func(_ models.Routine, e models.Exercise) (models.Exercise, models.Result) {
		e.RestTime = rest
		return e, models.Ok(fmt.Sprintf("Rest time set to %ds", rest))
	})
}

// RemoveExercise deletes an exercise and its sets.
func (s *Store) RemoveExercise(routineID, exerciseID string) models.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	ri := s.indexOf(routineID)
	if ri < 0 {
		return models.Fail(msgRoutineNotFound)
	}
	r := s.routines[ri]
	ei := r.FindExercise(exerciseID)
	if ei < 0 {
		return models.Fail(msgExerciseNotFound)
	}

	name := r.Exercises[ei].Name
	r.Exercises = removeAt(r.Exercises, ei)
	s.commit(replaceAt(s.routines, ri, r))
	return models.Ok(fmt.Sprintf("Exercise %q removed", name))
}

// AddSet appends a zero-valued, incomplete set.
func (s *Store) AddSet(routineID, exerciseID string) models.Result {
	set := models.NewSet()
	res := s.withExercise(routineID, exerciseID, func(_ models.Routine, e models.Exercise) (models.Exercise, models.Result) {
		e.Sets = appendCopy(e.Sets, set)
		return e, models.Ok("Set added")
	})
	if res.Success {
		res.ID = set.ID
	}
	return res
}

// UpdateSet replaces reps and weight. Each value is sanitized on its own,
// falling back to 0.
func (s *Store) UpdateSet(routineID, exerciseID, setID string, reps, weight float64) models.Result {
	r := models.SanitizeInt(reps, 0)
	w := models.SanitizeNumber(weight, 0)

	return s.withSet(routineID, exerciseID, setID, func(set models.Set) (models.Set, string) {
		set.Reps = r
		set.Weight = w
		return set, "Set updated"
	})
}

// ToggleSetCompletion flips a set's completion flag.
func (s *Store) ToggleSetCompletion(routineID, exerciseID, setID string) models.Result {
	return s.withSet(routineID, exerciseID, setID, func(set models.Set) (models.Set, string) {
		set.IsCompleted = !set.IsCompleted
		if set.IsCompleted {
			return set, "Set marked complete"
		}
		return set, "Set marked incomplete"
	})
}

// RemoveSet deletes a set.
func (s *Store) RemoveSet(routineID, exerciseID, setID string) models.Result {
	return s.withExercise(routineID, exerciseID, func(_ models.Routine, e models.Exercise) (models.Exercise, models.Result) {
		si := e.FindSet(setID)
		if si < 0 {
			return e, models.Fail(msgSetNotFound)
		}
		e.Sets = removeAt(e.Sets, si)
		return e, models.Ok("Set removed")
	})
}

// withExercise resolves routine and exercise, applies fn to a copy of the
// exercise and commits the result if fn succeeded.
func (s *Store) withExercise(routineID, exerciseID string, fn func(models.Routine, models.Exercise) (models.Exercise, models.Result)) models.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	ri := s.indexOf(routineID)
	if ri < 0 {
		return models.Fail(msgRoutineNotFound)
	}
	r := s.routines[ri]
	ei := r.FindExercise(exerciseID)
	if ei < 0 {
		return models.Fail(msgExerciseNotFound)
	}

	next, res := fn(r, r.Exercises[ei])
	if !res.Success {
		return res
	}
	r.Exercises = replaceAt(r.Exercises, ei, next)
	s.commit(replaceAt(s.routines, ri, r))
	return res
}

// withSet is withExercise narrowed to one set.
func (s *Store) withSet(routineID, exerciseID, setID string, fn func(models.Set) (models.Set, string)) models.Result {
	return s.withExercise(routineID, exerciseID, func(_ models.Routine, e models.Exercise) (models.Exercise, models.Result) {
		si := e.FindSet(setID)
		if si < 0 {
			return e, models.Fail(msgSetNotFound)
		}
		set, msg := fn(e.Sets[si])
		e.Sets = replaceAt(e.Sets, si, set)
		return e, models.Ok(msg)
	})
}

// commit installs next and queues it for persistence. Caller holds mu.
func (s *Store) commit(next []models.Routine) {
	s.routines = next
	if !s.loaded {
		return
	}
	data, err := json.Marshal(next)
	if err != nil {
		s.logger.Error("encode routines failed", "err", err)
		return
	}
	s.writer.Enqueue(kv.RoutinesKey, string(data))
}

func (s *Store) indexOf(routineID string) int {
	for i, r := range s.routines {
		if r.ID == routineID {
			return i
		}
	}
	return -1
}

// routineNameTaken reports whether another routine already uses name.
func (s *Store) routineNameTaken(name, exceptID string) bool {
	key := models.NormalizeName(name)
	for _, r := range s.routines {
		if r.ID != exceptID && models.NormalizeName(r.Name) == key {
			return true
		}
	}
	return false
}

func exerciseNameTaken(r models.Routine, name, exceptID string) bool {
	key := models.NormalizeName(name)
	for _, e := range r.Exercises {
		if e.ID != exceptID && models.NormalizeName(e.Name) == key {
			return true
		}
	}
	return false
}

func nameLengthMessage(kind string) string {
	return fmt.Sprintf("%s name must be between %d and %d characters", kind, models.MinNameLength, models.MaxNameLength)
}
