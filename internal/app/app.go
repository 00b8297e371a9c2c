// ABOUTME: Composition root wiring storage, stores, notifier and session engine.
// ABOUTME: Shared by the CLI commands and the MCP server so both drive one core.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/harperreed/lift/internal/config"
	"github.com/harperreed/lift/internal/history"
	"github.com/harperreed/lift/internal/kv"
	"github.com/harperreed/lift/internal/notify"
	"github.com/harperreed/lift/internal/routines"
	"github.com/harperreed/lift/internal/session"
)

// App holds the long-lived components of one lift process.
type App struct {
	Config   *config.Config
	Logger   *log.Logger
	Backend  kv.Backend
	Writer   *kv.Writer
	Routines *routines.Store
	History  *history.Store
	Engine   *session.Engine
	Notifier *notify.Local

	// LoadErrors holds failures from reading persisted data. Stores that
	// failed to load keep working in memory but do not persist.
	LoadErrors []error
}

// Open creates the configured backend and builds an App on it.
func Open(ctx context.Context, cfg *config.Config, logger *log.Logger, deliver func(notify.Payload)) (*App, error) {
	backend, err := cfg.OpenStorage(ctx, logger)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.GetBackend(), err)
	}
	a := New(ctx, backend, logger, deliver)
	a.Config = cfg
	return a, nil
}

// New builds an App on an already open backend and loads both stores.
func New(ctx context.Context, backend kv.Backend, logger *log.Logger, deliver func(notify.Payload)) *App {
	writer := kv.NewWriter(backend, logger)
	notifier := notify.NewLocal(deliver)
	h := history.New(backend, writer, logger)

	a := &App{
		Config:   &config.Config{},
		Logger:   logger,
		Backend:  backend,
		Writer:   writer,
		Routines: routines.New(backend, writer, logger),
		History:  h,
		Engine:   session.New(h, session.NewRestTimers(notifier, logger), logger),
		Notifier: notifier,
	}

	if err := a.Routines.Load(ctx); err != nil {
		a.LoadErrors = append(a.LoadErrors, err)
	}
	if err := a.History.Load(ctx); err != nil {
		a.LoadErrors = append(a.LoadErrors, err)
	}
	return a
}

// Degraded reports whether any store failed to load.
func (a *App) Degraded() bool {
	return len(a.LoadErrors) > 0
}

// Close cancels rest timers, writes pending data and releases the backend.
// A live session is left uncommitted.
func (a *App) Close(ctx context.Context) error {
	a.Engine.Timers().CancelAll(ctx)

	var errs []error
	if err := a.Writer.Flush(ctx); err != nil {
		errs = append(errs, fmt.Errorf("flush writes: %w", err))
	}
	if err := a.Writer.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close writer: %w", err))
	}
	if err := a.Notifier.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close notifier: %w", err))
	}
	if err := a.Backend.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close storage: %w", err))
	}
	return errors.Join(errs...)
}
