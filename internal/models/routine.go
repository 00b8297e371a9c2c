// ABOUTME: Routine, Exercise and Set models for workout planning.
// ABOUTME: Routines own ordered exercises, exercises own ordered sets.
package models

import (
	"github.com/google/uuid"
)

// DefaultRestTime is the rest interval in seconds given to new exercises.
const DefaultRestTime = 60

// Name length bounds shared by routines and exercises.
const (
	MinNameLength = 2
	MaxNameLength = 120
)

// Routine is a named, ordered list of exercises.
type Routine struct {
	ID        string     `json:"id" yaml:"id"`
	Name      string     `json:"name" yaml:"name"`
	Exercises []Exercise `json:"exercises" yaml:"exercises"`
}

// Exercise is a named movement inside a routine with its planned sets.
type Exercise struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	RestTime int    `json:"restTime" yaml:"rest_time"` // seconds
	Sets     []Set  `json:"sets" yaml:"sets"`
}

// Set is a single reps x weight entry.
type Set struct {
	ID          string  `json:"id" yaml:"id"`
	Reps        int     `json:"reps" yaml:"reps"`
	Weight      float64 `json:"weight" yaml:"weight"`
	IsCompleted bool    `json:"isCompleted" yaml:"is_completed"`
}

// NewRoutine creates a Routine with a generated ID and no exercises.
func NewRoutine(name string) Routine {
	return Routine{
		ID:        uuid.New().String(),
		Name:      name,
		Exercises: []Exercise{},
	}
}

// NewExercise creates an Exercise with the default rest time and no sets.
func NewExercise(name string) Exercise {
	return Exercise{
		ID:       uuid.New().String(),
		Name:     name,
		RestTime: DefaultRestTime,
		Sets:     []Set{},
	}
}

// NewSet creates a zero-valued, incomplete Set.
func NewSet() Set {
	return Set{ID: uuid.New().String()}
}

// FindExercise returns the index of the exercise with the given ID, or -1.
func (r Routine) FindExercise(exerciseID string) int {
	for i, e := range r.Exercises {
		if e.ID == exerciseID {
			return i
		}
	}
	return -1
}

// FindSet returns the index of the set with the given ID, or -1.
func (e Exercise) FindSet(setID string) int {
	for i, s := range e.Sets {
		if s.ID == setID {
			return i
		}
	}
	return -1
}

// SetCount returns the number of planned sets across all exercises.
func (r Routine) SetCount() int {
	n := 0
	for _, e := range r.Exercises {
		n += len(e.Sets)
	}
	return n
}

// Clone returns a deep copy of the routine.
func (r Routine) Clone() Routine {
	out := r
	out.Exercises = make([]Exercise, len(r.Exercises))
	for i, e := range r.Exercises {
		out.Exercises[i] = e.Clone()
	}
	return out
}

// Clone returns a deep copy of the exercise.
func (e Exercise) Clone() Exercise {
	out := e
	out.Sets = append([]Set{}, e.Sets...)
	return out
}
