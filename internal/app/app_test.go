// ABOUTME: Tests for the App composition root.
// ABOUTME: Runs a routine through a session into history over memory and SQLite backends.
package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/harperreed/lift/internal/config"
	"github.com/harperreed/lift/internal/kv"
	"github.com/harperreed/lift/internal/logging"
	"github.com/harperreed/lift/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type unreadable struct{ *kv.Memory }

func (unreadable) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk on fire")
}

func TestNewWiresStores(t *testing.T) {
	ctx := context.Background()
	a := New(ctx, kv.NewMemory(), logging.Discard(), nil)
	defer a.Close(ctx)

	assert.False(t, a.Degraded())
	res := a.Routines.AddRoutine("Leg Day")
	require.True(t, res.Success)
	r, ok := a.Routines.GetRoutine(res.ID)
	require.True(t, ok)

	_, err := a.Engine.Start(r.ID, r.Name, r.Exercises)
	require.NoError(t, err)
	ws, ok := a.Engine.Finish(ctx)
	require.True(t, ok)
	assert.Equal(t, 1, a.History.Count())
	assert.Equal(t, ws.ID, a.History.Sessions()[0].ID)
}

func TestCloseFlushesToBackend(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "lift.db")
	db, err := storage.Open(path)
	require.NoError(t, err)

	a := New(ctx, db, logging.Discard(), nil)
	require.True(t, a.Routines.AddRoutine("Push Day").Success)
	require.NoError(t, a.Close(ctx))

	reopened, err := storage.Open(path)
	require.NoError(t, err)
	b := New(ctx, reopened, logging.Discard(), nil)
	defer b.Close(ctx)
	assert.Equal(t, 1, b.Routines.Count())
}

func TestLoadFailureIsDegraded(t *testing.T) {
	ctx := context.Background()
	a := New(ctx, unreadable{kv.NewMemory()}, logging.Discard(), nil)
	defer a.Close(ctx)

	assert.True(t, a.Degraded())
	assert.Len(t, a.LoadErrors, 2)
	assert.True(t, a.Routines.AddRoutine("Still Works").Success)
}

func TestOpenMemoryBackend(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{Backend: config.BackendMemory}

	a, err := Open(ctx, cfg, logging.Discard(), nil)
	require.NoError(t, err)
	defer a.Close(ctx)
	assert.Same(t, cfg, a.Config)
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{Backend: "floppy"}, logging.Discard(), nil)
	assert.Error(t, err)
}
