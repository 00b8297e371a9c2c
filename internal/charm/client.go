// ABOUTME: Charm KV backend for lift with encrypted cloud sync.
// ABOUTME: Stores each collection under its key and syncs after writes.
package charm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/charmbracelet/log"
	"github.com/dgraph-io/badger/v3"
	liftkv "github.com/harperreed/lift/internal/kv"
)

const (
	// DefaultDBName is the Charm KV database lift writes to.
	DefaultDBName = "lift"
	// DefaultHost is the Charm server used when none is configured.
	DefaultHost = "charm.2389.dev"
)

// ErrReadOnly is returned by Set when another process holds the database lock.
var ErrReadOnly = errors.New("cannot write: database is locked by another process (MCP server?)")

// store is the subset of *kv.KV the client uses.
type store interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Keys() ([][]byte, error)
	Sync() error
	Reset() error
	IsReadOnly() bool
	Close() error
}

// Options configures Open.
type Options struct {
	DBName   string
	Host     string
	AutoSync bool
	Logger   *log.Logger
}

// Client is a liftkv.Backend over Charm KV.
type Client struct {
	kv       store
	autoSync bool
	logger   *log.Logger
	mu       sync.RWMutex
}

// Compile-time check that Client implements liftkv.Backend.
var _ liftkv.Backend = (*Client)(nil)

// Open connects to the Charm KV database and pulls remote changes.
func Open(opts Options) (*Client, error) {
	if opts.DBName == "" {
		opts.DBName = DefaultDBName
	}
	if opts.Host == "" {
		opts.Host = DefaultHost
	}
	if opts.Logger == nil {
		opts.Logger = log.New(os.Stderr)
	}

	// The charm client reads its server from the environment.
	if err := os.Setenv("CHARM_HOST", opts.Host); err != nil {
		return nil, fmt.Errorf("set charm host: %w", err)
	}

	db, err := kv.OpenWithDefaultsFallback(opts.DBName)
	if err != nil {
		return nil, fmt.Errorf("open charm kv: %w", err)
	}

	c := newClient(db, opts.AutoSync, opts.Logger)

	// Pull remote data on startup (skip in read-only mode)
	if !db.IsReadOnly() {
		if err := db.Sync(); err != nil {
			c.logger.Warn("initial charm sync failed", "err", err)
		}
	}
	return c, nil
}

func newClient(s store, autoSync bool, logger *log.Logger) *Client {
	return &Client{kv: s, autoSync: autoSync, logger: logger}
}

// Get returns the value stored under key.
func (c *Client) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := c.kv.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return string(data), true, nil
}

// Set stores value under key and syncs if auto sync is on.
func (c *Client) Set(_ context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}
	if err := c.kv.Set([]byte(key), []byte(value)); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	c.syncIfEnabled()
	return nil
}

// Keys lists the stored keys in order.
func (c *Client) Keys() ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	raw, err := c.kv.Keys()
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	keys := make([]string, 0, len(raw))
	for _, k := range raw {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	return keys, nil
}

// Close closes the KV database connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv != nil {
		return c.kv.Close()
	}
	return nil
}

// IsReadOnly returns true if the database is open in read-only mode.
// This happens when another process (like an MCP server) holds the lock.
func (c *Client) IsReadOnly() bool {
	return c.kv.IsReadOnly()
}

// Sync synchronizes local state with Charm Cloud.
func (c *Client) Sync() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.kv.IsReadOnly() {
		return nil
	}
	return c.kv.Sync()
}

// SetAutoSync enables or disables automatic sync after writes.
func (c *Client) SetAutoSync(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoSync = enabled
}

// Reset wipes local data and rebuilds from Charm Cloud.
func (c *Client) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Reset()
}

// ID returns the Charm user ID for the current account.
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("create charm client: %w", err)
	}
	return cc.ID()
}

// syncIfEnabled pushes after a write. Sync failures leave local data intact,
// so they are logged rather than returned.
func (c *Client) syncIfEnabled() {
	if !c.autoSync || c.kv.IsReadOnly() {
		return
	}
	if err := c.kv.Sync(); err != nil {
		c.logger.Warn("charm sync failed", "err", err)
	}
}
