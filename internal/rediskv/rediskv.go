// ABOUTME: Redis-backed key-value storage for sharing lift data across machines.
// ABOUTME: Keys are namespaced with a prefix; redis.Nil means the key is absent.
package rediskv

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/harperreed/lift/internal/kv"
)

// DefaultPrefix namespaces lift keys inside a shared Redis database.
const DefaultPrefix = "lift:"

// Store implements kv.Backend over a Redis client.
type Store struct {
	client *redis.Client
	prefix string
}

// Compile-time check that Store implements kv.Backend.
var _ kv.Backend = (*Store)(nil)

// New wraps an existing client.
func New(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

// Options configures Dial.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Dial connects to Redis and verifies the connection with a ping.
func Dial(ctx context.Context, opts Options) (*Store, error) {
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}
	return New(rdb, opts.Prefix), nil
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return val, true, nil
}

// Set stores value under key with no expiry.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
