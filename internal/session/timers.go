// ABOUTME: Per-exercise rest timers backed by a notification scheduler.
// ABOUTME: Starting a timer supersedes the previous one for the same exercise.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/lift/internal/notify"
)

// Notifier schedules and cancels delayed notifications.
type Notifier interface {
	Schedule(ctx context.Context, delay time.Duration, p notify.Payload) (string, error)
	Cancel(ctx context.Context, handle string) error
}

type restTimer struct {
	handle   string
	deadline time.Time
}

// RestTimers tracks at most one pending rest timer per exercise.
type RestTimers struct {
	mu       sync.Mutex
	timers   map[string]restTimer
	notifier Notifier
	logger   *log.Logger
	now      func() time.Time
}

// NewRestTimers creates RestTimers scheduling through n.
func NewRestTimers(n Notifier, logger *log.Logger) *RestTimers {
	return &RestTimers{
		timers:   make(map[string]restTimer),
		notifier: n,
		logger:   logger,
		now:      time.Now,
	}
}

// Start schedules a rest-complete notification for exerciseID after seconds,
// cancelling any timer already pending for it. Non-positive durations only
// cancel.
func (r *RestTimers) Start(ctx context.Context, exerciseID, exerciseName string, seconds int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cancelLocked(ctx, exerciseID)
	if seconds <= 0 {
		return nil
	}

	delay := time.Duration(seconds) * time.Second
	handle, err := r.notifier.Schedule(ctx, delay, notify.Payload{
		Title: "Rest complete",
		Body:  fmt.Sprintf("Time for your next set of %s", exerciseName),
	})
	if err != nil {
		r.logger.Error("schedule rest timer failed", "exercise", exerciseID, "err", err)
		return fmt.Errorf("schedule rest timer: %w", err)
	}
	r.timers[exerciseID] = restTimer{handle: handle, deadline: r.now().Add(delay)}
	return nil
}

// Cancel stops the timer for exerciseID, if any.
func (r *RestTimers) Cancel(ctx context.Context, exerciseID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelLocked(ctx, exerciseID)
}

// CancelAll stops every pending timer.
func (r *RestTimers) CancelAll(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id := range r.timers {
		r.cancelLocked(ctx, id)
	}
}

// Remaining returns the time left on the rest timer for exerciseID.
// ok is false when no timer is running.
func (r *RestTimers) Remaining(exerciseID string) (time.Duration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.timers[exerciseID]
	if !ok {
		return 0, false
	}
	left := t.deadline.Sub(r.now())
	if left <= 0 {
		delete(r.timers, exerciseID)
		return 0, false
	}
	return left, true
}

// Pending returns the IDs of exercises with a timer still running.
func (r *RestTimers) Pending() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	ids := make([]string, 0, len(r.timers))
	for id, t := range r.timers {
		if t.deadline.After(now) {
			ids = append(ids, id)
		}
	}
	return ids
}

func (r *RestTimers) cancelLocked(ctx context.Context, exerciseID string) {
	t, ok := r.timers[exerciseID]
	if !ok {
		return
	}
	delete(r.timers, exerciseID)
	if err := r.notifier.Cancel(ctx, t.handle); err != nil {
		r.logger.Warn("cancel rest timer failed", "exercise", exerciseID, "err", err)
	}
}
