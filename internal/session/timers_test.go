// ABOUTME: Tests for per-exercise rest timers.
// ABOUTME: Runs against the real in-process notifier and a recording fake.
package session

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/lift/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestTimersDeliverThroughLocal(t *testing.T) {
	got := make(chan notify.Payload, 1)
	local := notify.NewLocal(func(p notify.Payload) { got <- p })
	defer local.Close()

	timers := NewRestTimers(local, log.New(&bytes.Buffer{}))
	// A one-second rest is the shortest the API allows.
	require.NoError(t, timers.Start(context.Background(), "e1", "Deadlift", 1))

	select {
	case p := <-got:
		assert.Equal(t, "Rest complete", p.Title)
		assert.Contains(t, p.Body, "Deadlift")
	case <-time.After(3 * time.Second):
		t.Fatal("rest notification not delivered")
	}
}

func TestRestTimersCancelIsIdempotent(t *testing.T) {
	ctx := context.Background()
	n := &recordingNotifier{}
	timers := NewRestTimers(n, log.New(&bytes.Buffer{}))

	require.NoError(t, timers.Start(ctx, "e1", "Row", 60))
	require.NoError(t, timers.Start(ctx, "e2", "Curl", 30))
	assert.ElementsMatch(t, []string{"e1", "e2"}, timers.Pending())

	timers.Cancel(ctx, "e1")
	timers.Cancel(ctx, "e1")
	timers.Cancel(ctx, "unknown")
	assert.Equal(t, []string{"h1"}, n.cancelled)

	timers.CancelAll(ctx)
	timers.CancelAll(ctx)
	assert.Equal(t, []string{"h1", "h2"}, n.cancelled)
	assert.Empty(t, timers.Pending())
}

func TestRestTimersZeroDurationOnlyCancels(t *testing.T) {
	ctx := context.Background()
	n := &recordingNotifier{}
	timers := NewRestTimers(n, log.New(&bytes.Buffer{}))

	require.NoError(t, timers.Start(ctx, "e1", "Row", 60))
	require.NoError(t, timers.Start(ctx, "e1", "Row", 0))
	assert.Len(t, n.scheduled, 1)
	assert.Equal(t, []string{"h1"}, n.cancelled)
	_, ok := timers.Remaining("e1")
	assert.False(t, ok)
}

func TestRestTimersRemainingExpires(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 5, 4, 18, 0, 0, 0, time.UTC)}
	timers := NewRestTimers(&recordingNotifier{}, log.New(&bytes.Buffer{}))
	timers.now = clock.Now

	require.NoError(t, timers.Start(ctx, "e1", "Row", 60))
	clock.Advance(45 * time.Second)
	left, ok := timers.Remaining("e1")
	require.True(t, ok)
	assert.Equal(t, 15*time.Second, left)

	clock.Advance(15 * time.Second)
	_, ok = timers.Remaining("e1")
	assert.False(t, ok)
}
