// ABOUTME: Unit tests for the Charm KV backend.
// ABOUTME: Uses an in-memory fake of the KV store so no network is needed.
package charm

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/dgraph-io/badger/v3"
)

type fakeStore struct {
	data     map[string][]byte
	readOnly bool
	syncs    int
	syncErr  error
	closed   bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string][]byte)}
}

func (f *fakeStore) Get(key []byte) ([]byte, error) {
	v, ok := f.data[string(key)]
	if !ok {
		return nil, badger.ErrKeyNotFound
	}
	return v, nil
}

func (f *fakeStore) Set(key, value []byte) error {
	f.data[string(key)] = value
	return nil
}

func (f *fakeStore) Keys() ([][]byte, error) {
	var keys [][]byte
	for k := range f.data {
		keys = append(keys, []byte(k))
	}
	return keys, nil
}

func (f *fakeStore) Sync() error {
	f.syncs++
	return f.syncErr
}

func (f *fakeStore) Reset() error {
	f.data = make(map[string][]byte)
	return nil
}

func (f *fakeStore) IsReadOnly() bool { return f.readOnly }

func (f *fakeStore) Close() error {
	f.closed = true
	return nil
}

func TestGetMissingKey(t *testing.T) {
	c := newClient(newFakeStore(), false, log.New(&bytes.Buffer{}))

	_, found, err := c.Get(context.Background(), "routines")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found {
		t.Error("expected found=false for missing key")
	}
}

func TestSetThenGet(t *testing.T) {
	fs := newFakeStore()
	c := newClient(fs, true, log.New(&bytes.Buffer{}))
	ctx := context.Background()

	if err := c.Set(ctx, "routines", "[]"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	v, found, err := c.Get(ctx, "routines")
	if err != nil || !found || v != "[]" {
		t.Errorf("Get = %q, %v, %v", v, found, err)
	}
	if fs.syncs != 1 {
		t.Errorf("expected one sync after write, got %d", fs.syncs)
	}
}

func TestAutoSyncDisabled(t *testing.T) {
	fs := newFakeStore()
	c := newClient(fs, true, log.New(&bytes.Buffer{}))
	c.SetAutoSync(false)

	_ = c.Set(context.Background(), "sessions", "[]")
	if fs.syncs != 0 {
		t.Errorf("expected no sync, got %d", fs.syncs)
	}
}

func TestSyncFailureIsLoggedNotReturned(t *testing.T) {
	fs := newFakeStore()
	fs.syncErr = errors.New("offline")
	var buf bytes.Buffer
	c := newClient(fs, true, log.New(&buf))

	if err := c.Set(context.Background(), "routines", "[]"); err != nil {
		t.Fatalf("Set should succeed locally: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("charm sync failed")) {
		t.Errorf("expected sync failure to be logged, got %q", buf.String())
	}
}

func TestReadOnlyRejectsWrites(t *testing.T) {
	fs := newFakeStore()
	fs.readOnly = true
	c := newClient(fs, true, log.New(&bytes.Buffer{}))

	err := c.Set(context.Background(), "routines", "[]")
	if !errors.Is(err, ErrReadOnly) {
		t.Fatalf("expected ErrReadOnly, got %v", err)
	}
	if !c.IsReadOnly() {
		t.Error("IsReadOnly should be true")
	}
	if err := c.Sync(); err != nil {
		t.Errorf("Sync in read-only mode should be a no-op, got %v", err)
	}
	if fs.syncs != 0 {
		t.Errorf("read-only client should not sync, got %d", fs.syncs)
	}
}

func TestKeysSorted(t *testing.T) {
	fs := newFakeStore()
	fs.data["sessions"] = []byte("[]")
	fs.data["routines"] = []byte("[]")
	c := newClient(fs, false, log.New(&bytes.Buffer{}))

	keys, err := c.Keys()
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if len(keys) != 2 || keys[0] != "routines" || keys[1] != "sessions" {
		t.Errorf("Keys() = %v", keys)
	}
}

func TestResetAndClose(t *testing.T) {
	fs := newFakeStore()
	fs.data["routines"] = []byte("[]")
	c := newClient(fs, false, log.New(&bytes.Buffer{}))

	if err := c.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if len(fs.data) != 0 {
		t.Error("Reset should clear local data")
	}
	if err := c.Close(); err != nil || !fs.closed {
		t.Errorf("Close = %v, closed=%v", err, fs.closed)
	}
}
