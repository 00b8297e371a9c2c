// ABOUTME: Tests for the routine store CRUD operations and persistence.
// ABOUTME: Covers validation, uniqueness, snapshot immutability and failure tolerance.
package routines

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/harperreed/lift/internal/kv"
	"github.com/harperreed/lift/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type failingStorage struct{}

func (failingStorage) Get(context.Context, string) (string, bool, error) {
	return "", false, nil
}

func (failingStorage) Set(context.Context, string, string) error {
	return errors.New("quota exceeded")
}

type brokenStorage struct{}

func (brokenStorage) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("unavailable")
}

func (brokenStorage) Set(context.Context, string, string) error {
	return nil
}

// newTestStore returns a loaded store over storage plus its writer.
func newTestStore(t *testing.T, storage kv.Storage, logger *log.Logger) (*Store, *kv.Writer) {
	t.Helper()
	w := kv.NewWriter(storage, logger)
	t.Cleanup(func() { _ = w.Close() })

	s := New(storage, w, logger)
	require.NoError(t, s.Load(context.Background()))
	return s, w
}

func discard() *log.Logger {
	return log.New(&bytes.Buffer{})
}

// seed creates a routine with one exercise and one set and returns their IDs.
func seed(t *testing.T, s *Store) (routineID, exerciseID, setID string) {
	t.Helper()
	res := s.AddRoutine("Push Day")
	require.True(t, res.Success, res.Message)
	routineID = res.ID

	res = s.AddExercise(routineID, "Bench Press")
	require.True(t, res.Success, res.Message)
	exerciseID = res.ID

	res = s.AddSet(routineID, exerciseID)
	require.True(t, res.Success, res.Message)
	setID = res.ID
	return routineID, exerciseID, setID
}

func TestAddRoutine(t *testing.T) {
	s, _ := newTestStore(t, kv.NewMemory(), discard())

	res := s.AddRoutine("  Push Day  ")
	require.True(t, res.Success)
	assert.NotEmpty(t, res.ID)

	r, ok := s.GetRoutine(res.ID)
	require.True(t, ok)
	assert.Equal(t, "Push Day", r.Name)
	assert.Empty(t, r.Exercises)
	assert.Equal(t, 1, s.Count())
}

func TestAddRoutineRejectsInvalidNames(t *testing.T) {
	s, _ := newTestStore(t, kv.NewMemory(), discard())

	for _, name := range []string{"", "a", "   ", strings.Repeat("x", 121)} {
		res := s.AddRoutine(name)
		assert.False(t, res.Success, "name %q", name)
		assert.Contains(t, res.Message, "between 2 and 120")
	}
	assert.Equal(t, 0, s.Count())
}

func TestRoutineNamesAreUniqueIgnoringCase(t *testing.T) {
	s, _ := newTestStore(t, kv.NewMemory(), discard())

	require.True(t, s.AddRoutine("Push Day").Success)
	res := s.AddRoutine("  push day ")
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "already exists")
	assert.Equal(t, 1, s.Count())
}

func TestUpdateRoutine(t *testing.T) {
	s, _ := newTestStore(t, kv.NewMemory(), discard())
	a := s.AddRoutine("Push Day").ID
	require.True(t, s.AddRoutine("Pull Day").Success)

	assert.True(t, s.UpdateRoutine(a, "PUSH DAY").Success, "renaming to own name in a new case is allowed")
	assert.False(t, s.UpdateRoutine(a, "pull day").Success)
	assert.False(t, s.UpdateRoutine(a, "x").Success)
	assert.False(t, s.UpdateRoutine("missing", "Leg Day").Success)

	r, _ := s.GetRoutine(a)
	assert.Equal(t, "PUSH DAY", r.Name)
}

func TestRemoveRoutine(t *testing.T) {
	s, _ := newTestStore(t, kv.NewMemory(), discard())
	id, _, _ := seed(t, s)

	assert.True(t, s.RemoveRoutine(id).Success)
	assert.Equal(t, 0, s.Count())

	res := s.RemoveRoutine(id)
	assert.False(t, res.Success)
	assert.Equal(t, msgRoutineNotFound, res.Message)
}

func TestAddExercise(t *testing.T) {
	s, _ := newTestStore(t, kv.NewMemory(), discard())
	id := s.AddRoutine("Push Day").ID

	res := s.AddExercise(id, "Bench Press")
	require.True(t, res.Success)

	r, _ := s.GetRoutine(id)
	require.Len(t, r.Exercises, 1)
	assert.Equal(t, models.DefaultRestTime, r.Exercises[0].RestTime)
	assert.Empty(t, r.Exercises[0].Sets)

	assert.False(t, s.AddExercise(id, "bench press").Success)
	assert.False(t, s.AddExercise(id, "B").Success)
	assert.False(t, s.AddExercise("missing", "Squat").Success)
}

func TestExerciseNamesScopedToRoutine(t *testing.T) {
	s, _ := newTestStore(t, kv.NewMemory(), discard())
	a := s.AddRoutine("Push Day").ID
	b := s.AddRoutine("Pull Day").ID

	assert.True(t, s.AddExercise(a, "Warmup").Success)
	assert.True(t, s.AddExercise(b, "Warmup").Success)
}

func TestUpdateExercise(t *testing.T) {
	s, _ := newTestStore(t, kv.NewMemory(), discard())
	rid, eid, _ := seed(t, s)
	require.True(t, s.AddExercise(rid, "Dips").Success)

	assert.True(t, s.UpdateExercise(rid, eid, "Incline Bench").Success)
	assert.False(t, s.UpdateExercise(rid, eid, "DIPS").Success)
	assert.False(t, s.UpdateExercise(rid, "missing", "Flyes").Success)

	r, _ := s.GetRoutine(rid)
	assert.Equal(t, "Incline Bench", r.Exercises[0].Name)
}

func TestUpdateExerciseRestTime(t *testing.T) {
	s, _ := newTestStore(t, kv.NewMemory(), discard())
	rid, eid, _ := seed(t, s)

	tests := []struct {
		name  string
		input float64
		want  int
	}{
		{"whole", 90, 90},
		{"fraction floors", 45.9, 45},
		{"zero", 0, 0},
		{"negative resets to default", -5, models.DefaultRestTime},
		{"NaN resets to default", math.NaN(), models.DefaultRestTime},
		{"infinite resets to default", math.Inf(1), models.DefaultRestTime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.True(t, s.UpdateExerciseRestTime(rid, eid, 120).Success)
			require.True(t, s.UpdateExerciseRestTime(rid, eid, tt.input).Success)
			r, _ := s.GetRoutine(rid)
			assert.Equal(t, tt.want, r.Exercises[0].RestTime)
		})
	}
}

func TestUpdateExerciseRestTimeMissingPath(t *testing.T) {
	s, _ := newTestStore(t, kv.NewMemory(), discard())
	rid, _, _ := seed(t, s)

	assert.False(t, s.UpdateExerciseRestTime("missing", "x", 30).Success)
	res := s.UpdateExerciseRestTime(rid, "missing", 30)
	assert.False(t, res.Success)
	assert.Equal(t, msgExerciseNotFound, res.Message)
}

func TestRemoveExercise(t *testing.T) {
	s, _ := newTestStore(t, kv.NewMemory(), discard())
	rid, eid, _ := seed(t, s)

	assert.True(t, s.RemoveExercise(rid, eid).Success)
	r, _ := s.GetRoutine(rid)
	assert.Empty(t, r.Exercises)
	assert.False(t, s.RemoveExercise(rid, eid).Success)
}

func TestSetLifecycle(t *testing.T) {
	s, _ := newTestStore(t, kv.NewMemory(), discard())
	rid, eid, sid := seed(t, s)

	r, _ := s.GetRoutine(rid)
	set := r.Exercises[0].Sets[0]
	assert.Equal(t, sid, set.ID)
	assert.Zero(t, set.Reps)
	assert.Zero(t, set.Weight)
	assert.False(t, set.IsCompleted)

	require.True(t, s.UpdateSet(rid, eid, sid, 8, 60).Success)
	require.True(t, s.ToggleSetCompletion(rid, eid, sid).Success)

	r, _ = s.GetRoutine(rid)
	set = r.Exercises[0].Sets[0]
	assert.Equal(t, 8, set.Reps)
	assert.Equal(t, 60.0, set.Weight)
	assert.True(t, set.IsCompleted)

	res := s.ToggleSetCompletion(rid, eid, sid)
	assert.Equal(t, "Set marked incomplete", res.Message)

	require.True(t, s.RemoveSet(rid, eid, sid).Success)
	r, _ = s.GetRoutine(rid)
	assert.Empty(t, r.Exercises[0].Sets)
}

func TestUpdateSetSanitizesEachField(t *testing.T) {
	s, _ := newTestStore(t, kv.NewMemory(), discard())
	rid, eid, sid := seed(t, s)

	require.True(t, s.UpdateSet(rid, eid, sid, -3, 42.5).Success)
	r, _ := s.GetRoutine(rid)
	assert.Equal(t, 0, r.Exercises[0].Sets[0].Reps)
	assert.Equal(t, 42.5, r.Exercises[0].Sets[0].Weight)

	require.True(t, s.UpdateSet(rid, eid, sid, 10.7, math.NaN()).Success)
	r, _ = s.GetRoutine(rid)
	assert.Equal(t, 10, r.Exercises[0].Sets[0].Reps)
	assert.Equal(t, 0.0, r.Exercises[0].Sets[0].Weight)
}

func TestSetOperationsFailOnMissingPath(t *testing.T) {
	s, _ := newTestStore(t, kv.NewMemory(), discard())
	rid, eid, sid := seed(t, s)
	before := s.Routines()

	tests := []struct {
		name string
		res  models.Result
		want string
	}{
		{"update missing routine", s.UpdateSet("missing", eid, sid, 1, 1), msgRoutineNotFound},
		{"update missing exercise", s.UpdateSet(rid, "missing", sid, 1, 1), msgExerciseNotFound},
		{"update missing set", s.UpdateSet(rid, eid, "missing", 1, 1), msgSetNotFound},
		{"toggle missing set", s.ToggleSetCompletion(rid, eid, "missing"), msgSetNotFound},
		{"remove missing set", s.RemoveSet(rid, eid, "missing"), msgSetNotFound},
		{"add set missing exercise", s.AddSet(rid, "missing"), msgExerciseNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, tt.res.Success)
			assert.Equal(t, tt.want, tt.res.Message)
		})
	}
	assert.Equal(t, before, s.Routines(), "failed operations must not change state")
}

func TestSnapshotsAreNotMutated(t *testing.T) {
	s, _ := newTestStore(t, kv.NewMemory(), discard())
	rid, eid, sid := seed(t, s)

	snapshot := s.Routines()
	require.True(t, s.UpdateSet(rid, eid, sid, 5, 100).Success)
	require.True(t, s.AddExercise(rid, "Dips").Success)
	require.True(t, s.UpdateRoutine(rid, "Chest Day").Success)

	assert.Equal(t, "Push Day", snapshot[0].Name)
	assert.Len(t, snapshot[0].Exercises, 1)
	assert.Zero(t, snapshot[0].Exercises[0].Sets[0].Reps)
}

func TestPersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	s, w := newTestStore(t, mem, discard())
	rid, eid, sid := seed(t, s)
	require.True(t, s.UpdateSet(rid, eid, sid, 5, 20).Success)
	require.NoError(t, w.Flush(ctx))

	raw, found, err := mem.Get(ctx, kv.RoutinesKey)
	require.NoError(t, err)
	require.True(t, found)
	assert.Contains(t, raw, `"restTime":60`)
	assert.Contains(t, raw, `"isCompleted":false`)

	reloaded := New(mem, w, discard())
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, s.Routines(), reloaded.Routines())
}

func TestPersistenceFailureDoesNotFailMutation(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	s, w := newTestStore(t, failingStorage{}, logger)

	res := s.AddRoutine("Leg Day")
	require.True(t, res.Success)
	require.NoError(t, w.Flush(context.Background()))

	assert.Equal(t, 1, s.Count())
	assert.Contains(t, buf.String(), "persist failed")
	assert.Contains(t, buf.String(), "quota exceeded")
}

func TestLoadFailureKeepsPersistenceOff(t *testing.T) {
	ctx := context.Background()
	rec := kv.NewMemory()
	w := kv.NewWriter(rec, discard())
	defer w.Close()

	s := New(brokenStorage{}, w, discard())
	assert.Error(t, s.Load(ctx))

	require.True(t, s.AddRoutine("Leg Day").Success)
	require.NoError(t, w.Flush(ctx))
	_, found, _ := rec.Get(ctx, kv.RoutinesKey)
	assert.False(t, found)
}

func TestLoadRejectsCorruptData(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	require.NoError(t, mem.Set(ctx, kv.RoutinesKey, "{not json"))

	s := New(mem, nil, discard())
	assert.Error(t, s.Load(ctx))
	assert.Equal(t, 0, s.Count())
}

func TestLoadDecodesStoredRoutines(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	stored := []models.Routine{{
		ID:   "r1",
		Name: "Upper",
		Exercises: []models.Exercise{{
			ID: "e1", Name: "Row", RestTime: 90,
			Sets: []models.Set{{ID: "s1", Reps: 10, Weight: 50}},
		}},
	}}
	data, err := json.Marshal(stored)
	require.NoError(t, err)
	require.NoError(t, mem.Set(ctx, kv.RoutinesKey, string(data)))

	s := New(mem, nil, discard())
	require.NoError(t, s.Load(ctx))
	assert.Equal(t, stored, s.Routines())
}
