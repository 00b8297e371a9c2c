// ABOUTME: Session engine running the Idle, Active, Finished/Abandoned lifecycle.
// ABOUTME: Owns the live workout, derives its stats and commits it to history.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/lift/internal/history"
	"github.com/harperreed/lift/internal/models"
)

var (
	// ErrSessionActive is returned by Start while a session is live.
	ErrSessionActive = errors.New("a workout session is already active")
	// ErrNoActiveSession is returned by edits when no session is live.
	ErrNoActiveSession = errors.New("no active workout session")
	// ErrNotFound is returned when an exercise or set is not in the live session.
	ErrNotFound = errors.New("exercise or set not found in session")
)

// Engine holds at most one live session.
type Engine struct {
	mu      sync.Mutex
	current *models.WorkoutSession

	history *history.Store
	timers  *RestTimers
	logger  *log.Logger
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces time.Now for the engine and its rest timers.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
		if e.timers != nil {
			e.timers.now = now
		}
	}
}

// New creates an idle Engine committing finished sessions to h.
func New(h *history.Store, timers *RestTimers, logger *log.Logger, opts ...Option) *Engine {
	e := &Engine{
		history: h,
		timers:  timers,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start begins a session from a routine's exercises. Every set starts
// incomplete regardless of its flag in the routine.
func (e *Engine) Start(routineID, routineName string, exercises []models.Exercise) (models.WorkoutSession, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current != nil {
		e.logger.Warn("start rejected, session already active", "session", e.current.ID, "routine", routineID)
		return models.WorkoutSession{}, ErrSessionActive
	}

	ws := models.WorkoutSession{
		ID:          models.NewSessionID(),
		RoutineID:   routineID,
		RoutineName: routineName,
		Exercises:   models.LogsFromExercises(exercises),
		StartTime:   e.now(),
	}
	e.current = &ws
	e.logger.Info("session started", "session", ws.ID, "routine", routineName)
	return snapshot(ws), nil
}

// Update replaces the live exercise snapshot with the caller's working copy
// and recomputes duration, volume and completed set count.
func (e *Engine) Update(exercises []models.ExerciseLog) (models.WorkoutSession, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current == nil {
		return models.WorkoutSession{}, ErrNoActiveSession
	}
	e.applyLocked(exercises)
	return snapshot(*e.current), nil
}

// ToggleSet flips a set's completion in the live session. Completing a set
// starts the exercise's rest timer; un-completing it cancels the timer.
func (e *Engine) ToggleSet(ctx context.Context, exerciseID, setID string) (models.SetLog, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next, ei, si, err := e.workingCopyLocked(exerciseID, setID)
	if err != nil {
		return models.SetLog{}, err
	}
	set := &next[ei].Sets[si]
	set.IsCompleted = !set.IsCompleted
	e.applyLocked(next)

	ex := e.current.Exercises[ei]
	result := ex.Sets[si]
	if result.IsCompleted && ex.RestTime > 0 {
		// Rest timer failures are logged by RestTimers and do not undo the toggle.
		_ = e.timers.Start(ctx, ex.ID, ex.Name, ex.RestTime)
	} else if !result.IsCompleted {
		e.timers.Cancel(ctx, ex.ID)
	}
	return cloneSet(result), nil
}

// EditSet sets reps and weight on a live set. Invalid values become 0.
func (e *Engine) EditSet(exerciseID, setID string, reps, weight float64) (models.SetLog, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next, ei, si, err := e.workingCopyLocked(exerciseID, setID)
	if err != nil {
		return models.SetLog{}, err
	}
	next[ei].Sets[si].Reps = models.SanitizeInt(reps, 0)
	next[ei].Sets[si].Weight = models.SanitizeNumber(weight, 0)
	e.applyLocked(next)
	return cloneSet(e.current.Exercises[ei].Sets[si]), nil
}

// Finish commits the live session to history and returns it. It reports
// false and does nothing when no session is live.
func (e *Engine) Finish(ctx context.Context) (models.WorkoutSession, bool) {
	e.mu.Lock()
	if e.current == nil {
		e.mu.Unlock()
		return models.WorkoutSession{}, false
	}

	now := e.now()
	ws := snapshot(*e.current)
	stats := models.ComputeStats(ws.Exercises)
	ws.TotalVolume = stats.TotalVolume
	ws.TotalSetsCompleted = stats.TotalSetsCompleted
	ws.Duration = models.DurationSeconds(ws.StartTime, now)
	ws.EndTime = &now
	ws.IsFinished = true

	e.history.Append(ws)
	e.current = nil
	e.mu.Unlock()

	e.timers.CancelAll(ctx)
	e.logger.Info("session finished", "session", ws.ID, "volume", ws.TotalVolume, "sets", ws.TotalSetsCompleted)
	return snapshot(ws), true
}

// Abandon discards the live session without recording it.
func (e *Engine) Abandon(ctx context.Context) bool {
	e.mu.Lock()
	if e.current == nil {
		e.mu.Unlock()
		return false
	}
	id := e.current.ID
	e.current = nil
	e.mu.Unlock()

	e.timers.CancelAll(ctx)
	e.logger.Info("session abandoned", "session", id)
	return true
}

// Current returns a copy of the live session as of its last update.
func (e *Engine) Current() (models.WorkoutSession, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return models.WorkoutSession{}, false
	}
	return snapshot(*e.current), true
}

// Active reports whether a session is live.
func (e *Engine) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current != nil
}

// Elapsed returns the live session's running time, or 0 when idle.
func (e *Engine) Elapsed() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return 0
	}
	d := e.now().Sub(e.current.StartTime)
	if d < 0 {
		return 0
	}
	return d
}

// Timers exposes the rest timers for countdown display.
func (e *Engine) Timers() *RestTimers {
	return e.timers
}

// Tick calls fn with the elapsed time every interval until ctx is done or
// the session ends. It only reads state.
func (e *Engine) Tick(ctx context.Context, every time.Duration, fn func(elapsed time.Duration)) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !e.Active() {
				return
			}
			fn(e.Elapsed())
		}
	}
}

// SessionsByRoutine returns the recorded sessions for routineID.
func (e *Engine) SessionsByRoutine(routineID string) []models.WorkoutSession {
	return e.history.ByRoutine(routineID)
}

// applyLocked installs exercises as the live snapshot. Caller holds mu and
// has checked that a session is live.
func (e *Engine) applyLocked(exercises []models.ExerciseLog) {
	now := e.now()

	prev := make(map[string]models.SetLog)
	for _, ex := range e.current.Exercises {
		for _, s := range ex.Sets {
			prev[ex.ID+"/"+s.ID] = s
		}
	}

	next := models.CloneLogs(exercises)
	for i := range next {
		for j := range next[i].Sets {
			s := &next[i].Sets[j]
			s.Reps = max(s.Reps, 0)
			s.Weight = models.SanitizeNumber(s.Weight, 0)
			if !s.IsCompleted {
				s.CompletedAt = nil
				continue
			}
			if old, ok := prev[next[i].ID+"/"+s.ID]; ok && old.IsCompleted && old.CompletedAt != nil {
				s.CompletedAt = old.CompletedAt
				continue
			}
			stamp := now
			s.CompletedAt = &stamp
		}
	}

	stats := models.ComputeStats(next)
	e.current.Exercises = next
	e.current.TotalVolume = stats.TotalVolume
	e.current.TotalSetsCompleted = stats.TotalSetsCompleted
	e.current.Duration = models.DurationSeconds(e.current.StartTime, now)
}

// workingCopyLocked clones the live exercises and locates a set in the clone.
func (e *Engine) workingCopyLocked(exerciseID, setID string) ([]models.ExerciseLog, int, int, error) {
	if e.current == nil {
		return nil, 0, 0, ErrNoActiveSession
	}
	next := models.CloneLogs(e.current.Exercises)
	for i, ex := range next {
		if ex.ID != exerciseID {
			continue
		}
		for j, s := range ex.Sets {
			if s.ID == setID {
				return next, i, j, nil
			}
		}
	}
	return nil, 0, 0, ErrNotFound
}

func snapshot(ws models.WorkoutSession) models.WorkoutSession {
	ws.Exercises = models.CloneLogs(ws.Exercises)
	if ws.EndTime != nil {
		end := *ws.EndTime
		ws.EndTime = &end
	}
	return ws
}

func cloneSet(s models.SetLog) models.SetLog {
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		s.CompletedAt = &t
	}
	return s
}
