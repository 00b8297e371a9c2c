// ABOUTME: Tests for the in-process notification scheduler.
// ABOUTME: Checks delivery, idempotent cancellation and shutdown.
package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestScheduleDelivers(t *testing.T) {
	got := make(chan Payload, 1)
	l := NewLocal(func(p Payload) { got <- p })
	defer l.Close()

	handle, err := l.Schedule(context.Background(), 10*time.Millisecond, Payload{Title: "Rest complete", Body: "Squat"})
	require.NoError(t, err)
	assert.NotEmpty(t, handle)

	select {
	case p := <-got:
		assert.Equal(t, "Rest complete", p.Title)
		assert.Equal(t, "Squat", p.Body)
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not delivered")
	}
	assert.Eventually(t, func() bool { return l.Pending() == 0 }, time.Second, 5*time.Millisecond)
}

func TestCancelPreventsDelivery(t *testing.T) {
	delivered := make(chan Payload, 1)
	l := NewLocal(func(p Payload) { delivered <- p })
	defer l.Close()
	ctx := context.Background()

	handle, err := l.Schedule(ctx, 30*time.Millisecond, Payload{Title: "stale"})
	require.NoError(t, err)
	require.Equal(t, 1, l.Pending())

	require.NoError(t, l.Cancel(ctx, handle))
	require.NoError(t, l.Cancel(ctx, handle))
	require.NoError(t, l.Cancel(ctx, "never-issued"))
	assert.Equal(t, 0, l.Pending())

	select {
	case p := <-delivered:
		t.Fatalf("cancelled notification delivered: %+v", p)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHandlesAreDistinct(t *testing.T) {
	l := NewLocal(nil)
	defer l.Close()
	ctx := context.Background()

	a, err := l.Schedule(ctx, time.Hour, Payload{})
	require.NoError(t, err)
	b, err := l.Schedule(ctx, time.Hour, Payload{})
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, l.Pending())
}

func TestCloseStopsPending(t *testing.T) {
	l := NewLocal(nil)
	ctx := context.Background()

	_, err := l.Schedule(ctx, time.Hour, Payload{})
	require.NoError(t, err)
	require.NoError(t, l.Close())
	assert.Equal(t, 0, l.Pending())

	_, err = l.Schedule(ctx, time.Second, Payload{})
	assert.ErrorIs(t, err, ErrClosed)
}
