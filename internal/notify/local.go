// ABOUTME: In-process notification scheduler backed by one timer per handle.
// ABOUTME: Used for rest-complete alerts in the CLI and MCP server.
package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrClosed is returned by Schedule after Close.
var ErrClosed = errors.New("notifier closed")

// Payload is the content of a delivered notification.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Local delivers payloads by calling a function once each delay expires.
type Local struct {
	mu      sync.Mutex
	timers  map[string]*time.Timer
	seq     uint64
	closed  bool
	deliver func(Payload)
}

// NewLocal creates a Local that hands fired payloads to deliver. deliver is
// called from a timer goroutine and must not block for long.
func NewLocal(deliver func(Payload)) *Local {
	return &Local{
		timers:  make(map[string]*time.Timer),
		deliver: deliver,
	}
}

// Schedule arranges for p to be delivered after delay and returns its handle.
func (l *Local) Schedule(_ context.Context, delay time.Duration, p Payload) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return "", ErrClosed
	}
	l.seq++
	handle := fmt.Sprintf("notify-%d", l.seq)
	l.timers[handle] = time.AfterFunc(delay, func() { l.fire(handle, p) })
	return handle, nil
}

// Cancel stops a pending delivery. Unknown, fired and already cancelled
// handles are ignored.
func (l *Local) Cancel(_ context.Context, handle string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if t, ok := l.timers[handle]; ok {
		t.Stop()
		delete(l.timers, handle)
	}
	return nil
}

// Pending returns the number of scheduled, undelivered notifications.
func (l *Local) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.timers)
}

// Close cancels everything pending. Later Schedule calls fail.
func (l *Local) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for handle, t := range l.timers {
		t.Stop()
		delete(l.timers, handle)
	}
	l.closed = true
	return nil
}

func (l *Local) fire(handle string, p Payload) {
	l.mu.Lock()
	if _, ok := l.timers[handle]; !ok {
		// Cancelled after the timer fired but before we got the lock.
		l.mu.Unlock()
		return
	}
	delete(l.timers, handle)
	l.mu.Unlock()

	if l.deliver != nil {
		l.deliver(p)
	}
}
