// ABOUTME: Tests for data migration between storage backends.
// ABOUTME: Covers sqlite-to-memory copies, dry runs and the non-empty guard.
package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/harperreed/lift/internal/kv"
)

func TestMigrateDataSQLiteToMemory(t *testing.T) {
	ctx := context.Background()
	src := setupTestDB(t)
	_ = src.Set(ctx, kv.RoutinesKey, `[{"id":"r1","name":"Push Day","exercises":[]}]`)
	_ = src.Set(ctx, kv.SessionsKey, `[]`)

	dst := kv.NewMemory()
	summary, err := MigrateData(ctx, src, dst, false, false)
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	if len(summary.Keys) != 2 {
		t.Errorf("expected 2 keys migrated, got %v", summary.Keys)
	}

	v, found, _ := dst.Get(ctx, kv.RoutinesKey)
	if !found || v != `[{"id":"r1","name":"Push Day","exercises":[]}]` {
		t.Errorf("routines not copied: %q", v)
	}
}

func TestMigrateDataSkipsMissingKeys(t *testing.T) {
	ctx := context.Background()
	src := kv.NewMemory()
	_ = src.Set(ctx, kv.SessionsKey, `[]`)

	dst := setupTestDB(t)
	summary, err := MigrateData(ctx, src, dst, false, false)
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	if len(summary.Keys) != 1 || summary.Keys[0] != kv.SessionsKey {
		t.Errorf("unexpected keys: %v", summary.Keys)
	}
	if _, found, _ := dst.Get(ctx, kv.RoutinesKey); found {
		t.Error("missing source key should not be created")
	}
}

func TestMigrateDataDryRun(t *testing.T) {
	ctx := context.Background()
	src := kv.NewMemory()
	_ = src.Set(ctx, kv.RoutinesKey, `[]`)
	dst := kv.NewMemory()

	summary, err := MigrateData(ctx, src, dst, false, true)
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	if summary.Bytes != 2 {
		t.Errorf("Bytes = %d, want 2", summary.Bytes)
	}
	if _, found, _ := dst.Get(ctx, kv.RoutinesKey); found {
		t.Error("dry run must not write")
	}
}

func TestMigrateDataRefusesNonEmptyDestination(t *testing.T) {
	ctx := context.Background()
	src := kv.NewMemory()
	_ = src.Set(ctx, kv.RoutinesKey, `[{"id":"new"}]`)
	dst := kv.NewMemory()
	_ = dst.Set(ctx, kv.RoutinesKey, `[{"id":"old"}]`)

	_, err := MigrateData(ctx, src, dst, false, false)
	if !errors.Is(err, ErrDestinationNotEmpty) {
		t.Fatalf("expected ErrDestinationNotEmpty, got %v", err)
	}

	if _, err := MigrateData(ctx, src, dst, true, false); err != nil {
		t.Fatalf("forced migrate failed: %v", err)
	}
	v, _, _ := dst.Get(ctx, kv.RoutinesKey)
	if v != `[{"id":"new"}]` {
		t.Errorf("forced migrate did not overwrite: %q", v)
	}
}
