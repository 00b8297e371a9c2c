// ABOUTME: Data migration between lift storage backends.
// ABOUTME: Copies the routines and sessions keys from a source to a destination.

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/harperreed/lift/internal/kv"
)

// ErrDestinationNotEmpty is returned when the destination already holds data.
var ErrDestinationNotEmpty = errors.New("destination already has lift data")

// MigrateSummary holds the keys that were copied and their sizes.
type MigrateSummary struct {
	Keys  []string
	Bytes int
}

// MigrateData copies every lift collection from src to dst. Unless force is
// set it refuses to overwrite a destination that already holds any of them.
// With dryRun nothing is written.
func MigrateData(ctx context.Context, src, dst kv.Storage, force, dryRun bool) (*MigrateSummary, error) {
	keys := []string{kv.RoutinesKey, kv.SessionsKey}

	if !force {
		for _, key := range keys {
			_, found, err := dst.Get(ctx, key)
			if err != nil {
				return nil, fmt.Errorf("check destination %s: %w", key, err)
			}
			if found {
				return nil, fmt.Errorf("%w: key %q", ErrDestinationNotEmpty, key)
			}
		}
	}

	summary := &MigrateSummary{}
	for _, key := range keys {
		value, found, err := src.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("read source %s: %w", key, err)
		}
		if !found {
			continue
		}
		if !dryRun {
			if err := dst.Set(ctx, key, value); err != nil {
				return nil, fmt.Errorf("write destination %s: %w", key, err)
			}
		}
		summary.Keys = append(summary.Keys, key)
		summary.Bytes += len(value)
	}

	return summary, nil
}
