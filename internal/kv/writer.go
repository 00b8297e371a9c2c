// ABOUTME: Asynchronous write-behind for Storage; the latest value per key wins.
// ABOUTME: Write failures are logged and swallowed so callers never block on storage.
package kv

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

const defaultWriteTimeout = 5 * time.Second

// Writer persists values in the background. In-memory state stays the
// source of truth; a value enqueued before process exit may be lost unless
// Flush or Close is called.
type Writer struct {
	storage Storage
	logger  *log.Logger
	timeout time.Duration

	mu      sync.Mutex
	pending map[string]string
	order   []string
	closed  bool

	wake      chan struct{}
	flushes   chan chan struct{}
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewWriter starts a Writer for storage.
func NewWriter(storage Storage, logger *log.Logger) *Writer {
	w := &Writer{
		storage: storage,
		logger:  logger,
		timeout: defaultWriteTimeout,
		pending: make(map[string]string),
		wake:    make(chan struct{}, 1),
		flushes: make(chan chan struct{}),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w
}

// Enqueue schedules value to be written under key, replacing any value
// for the same key that has not been written yet.
func (w *Writer) Enqueue(key, value string) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.write(key, value)
		return
	}
	if _, ok := w.pending[key]; !ok {
		w.order = append(w.order, key)
	}
	w.pending[key] = value
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Flush blocks until every value enqueued before the call has been written.
func (w *Writer) Flush(ctx context.Context) error {
	reply := make(chan struct{})
	select {
	case w.flushes <- reply:
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-reply:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close writes anything pending and stops the background goroutine.
func (w *Writer) Close() error {
	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()
		close(w.quit)
	})
	<-w.done
	return nil
}

func (w *Writer) run() {
	defer close(w.done)
	for {
		select {
		case <-w.wake:
			w.drain()
		case reply := <-w.flushes:
			w.drain()
			close(reply)
		case <-w.quit:
			w.drain()
			return
		}
	}
}

func (w *Writer) drain() {
	w.mu.Lock()
	pending, order := w.pending, w.order
	w.pending = make(map[string]string)
	w.order = nil
	w.mu.Unlock()

	for _, key := range order {
		w.write(key, pending[key])
	}
}

func (w *Writer) write(key, value string) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	if err := w.storage.Set(ctx, key, value); err != nil {
		w.logger.Error("persist failed", "key", key, "err", err)
		return
	}
	w.logger.Debug("persisted", "key", key, "bytes", len(value))
}
