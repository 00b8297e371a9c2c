// ABOUTME: History store holding finished workout sessions, most recent first.
// ABOUTME: Persists the whole list after every append and answers per-routine queries.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/lift/internal/kv"
	"github.com/harperreed/lift/internal/models"
)

// ErrNotFound is returned when no session matches a lookup.
var ErrNotFound = errors.New("session not found")

// ErrAmbiguous is returned when an ID prefix matches more than one session.
var ErrAmbiguous = errors.New("session prefix is ambiguous")

// Store holds committed sessions. Sessions are immutable once appended.
type Store struct {
	mu       sync.RWMutex
	sessions []models.WorkoutSession
	loaded   bool

	storage kv.Storage
	writer  *kv.Writer
	logger  *log.Logger
}

// Summary aggregates a set of finished sessions.
type Summary struct {
	Sessions      int        `json:"sessions" yaml:"sessions"`
	TotalVolume   float64    `json:"totalVolume" yaml:"total_volume"`
	TotalSets     int        `json:"totalSets" yaml:"total_sets"`
	TotalDuration int        `json:"totalDuration" yaml:"total_duration"` // seconds
	BestVolume    float64    `json:"bestVolume" yaml:"best_volume"`
	LastPerformed *time.Time `json:"lastPerformed,omitempty" yaml:"last_performed,omitempty"`
}

// New creates an empty Store. Call Load to read history and enable persistence.
func New(storage kv.Storage, writer *kv.Writer, logger *log.Logger) *Store {
	return &Store{
		sessions: []models.WorkoutSession{},
		storage:  storage,
		writer:   writer,
		logger:   logger,
	}
}

// Load reads persisted sessions. On failure the store stays empty and does
// not persist, so an unreadable history is never overwritten.
func (s *Store) Load(ctx context.Context) error {
	value, found, err := s.storage.Get(ctx, kv.SessionsKey)
	if err != nil {
		s.logger.Error("load sessions failed", "err", err)
		return fmt.Errorf("load sessions: %w", err)
	}

	sessions := []models.WorkoutSession{}
	if found && strings.TrimSpace(value) != "" {
		if err := json.Unmarshal([]byte(value), &sessions); err != nil {
			s.logger.Error("decode sessions failed", "err", err)
			return fmt.Errorf("decode sessions: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = sessions
	s.loaded = true
	s.logger.Debug("sessions loaded", "count", len(sessions))
	return nil
}

// Append prepends a finished session and persists the list.
func (s *Store) Append(session models.WorkoutSession) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]models.WorkoutSession, 0, len(s.sessions)+1)
	next = append(next, session)
	next = append(next, s.sessions...)
	s.commit(next)
}

// Sessions returns every session, most recent first. Callers must not modify it.
func (s *Store) Sessions() []models.WorkoutSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions
}

// Count returns the number of stored sessions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// ByRoutine returns the sessions recorded for routineID, most recent first.
func (s *Store) ByRoutine(routineID string) []models.WorkoutSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.WorkoutSession{}
	for _, ws := range s.sessions {
		if ws.RoutineID == routineID {
			out = append(out, ws)
		}
	}
	return out
}

// Get finds a session by exact ID or unique, case-insensitive ID prefix.
func (s *Store) Get(ref string) (models.WorkoutSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ref = strings.TrimSpace(ref)
	for _, ws := range s.sessions {
		if ws.ID == ref {
			return ws, nil
		}
	}

	var (
		match models.WorkoutSession
		count int
	)
	for _, ws := range s.sessions {
		if ws.HasIDPrefix(ref) {
			match = ws
			count++
		}
	}
	switch count {
	case 0:
		return models.WorkoutSession{}, ErrNotFound
	case 1:
		return match, nil
	default:
		return models.WorkoutSession{}, fmt.Errorf("%w: %q", ErrAmbiguous, ref)
	}
}

// Summary aggregates sessions for routineID, or all sessions when it is empty.
func (s *Store) Summary(routineID string) Summary {
	var sessions []models.WorkoutSession
	if routineID == "" {
		sessions = s.Sessions()
	} else {
		sessions = s.ByRoutine(routineID)
	}
	return Summarize(sessions)
}

// Summarize aggregates the given sessions.
func Summarize(sessions []models.WorkoutSession) Summary {
	var sum Summary
	for _, ws := range sessions {
		sum.Sessions++
		sum.TotalVolume += ws.TotalVolume
		sum.TotalSets += ws.TotalSetsCompleted
		sum.TotalDuration += ws.Duration
		if ws.TotalVolume > sum.BestVolume {
			sum.BestVolume = ws.TotalVolume
		}
		performed := ws.StartTime
		if sum.LastPerformed == nil || performed.After(*sum.LastPerformed) {
			sum.LastPerformed = &performed
		}
	}
	return sum
}

// Import adds sessions whose IDs are not already stored and keeps the list
// ordered most recent first. It returns the number added.
func (s *Store) Import(sessions []models.WorkoutSession) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	known := make(map[string]bool, len(s.sessions))
	for _, ws := range s.sessions {
		known[ws.ID] = true
	}

	next := append([]models.WorkoutSession{}, s.sessions...)
	added := 0
	for _, ws := range sessions {
		if ws.ID == "" || known[ws.ID] || !ws.IsFinished {
			continue
		}
		known[ws.ID] = true
		next = append(next, ws)
		added++
	}
	if added == 0 {
		return 0
	}

	sort.SliceStable(next, func(i, j int) bool {
		return next[i].StartTime.After(next[j].StartTime)
	})
	s.commit(next)
	return added
}

// commit installs next and queues it for persistence. Caller holds mu.
func (s *Store) commit(next []models.WorkoutSession) {
	s.sessions = next
	if !s.loaded {
		return
	}
	data, err := json.Marshal(next)
	if err != nil {
		s.logger.Error("encode sessions failed", "err", err)
		return
	}
	s.writer.Enqueue(kv.SessionsKey, string(data))
}
