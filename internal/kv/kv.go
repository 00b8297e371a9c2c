// ABOUTME: Durable key-value storage contract used by the routine and history stores.
// ABOUTME: Includes an in-memory implementation for tests and ephemeral runs.
package kv

import (
	"context"
	"sync"
)

// Fixed keys for the two persisted collections.
const (
	RoutinesKey = "routines"
	SessionsKey = "sessions"
)

// Storage gets and sets string values by key.
type Storage interface {
	// Get returns found=false when the key has never been written.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Backend is a Storage that holds resources.
type Backend interface {
	Storage
	Close() error
}

// Memory is a process-local Storage.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// Compile-time check that Memory implements Backend.
var _ Backend = (*Memory)(nil)

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// Get returns the value stored under key.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// Set stores value under key.
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}
