// ABOUTME: Root Cobra command for lift CLI.
// ABOUTME: Loads config and opens the App via PersistentPre/PostRunE.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/lift/internal/app"
	"github.com/harperreed/lift/internal/config"
	"github.com/harperreed/lift/internal/logging"
	"github.com/harperreed/lift/internal/notify"
	"github.com/spf13/cobra"
)

// closeTimeout bounds how long exit waits for pending writes.
const closeTimeout = 10 * time.Second

var (
	lift *app.App

	backendFlag  string
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "lift",
	Short: "Workout routine tracker",
	Long: `Lift is a CLI tool for planning strength routines and logging the
workouts you run from them.

CONCEPTS:

  Routine    A named plan, e.g. "Push Day"
  Exercise   A movement inside a routine with a rest time (default 60s)
  Set        Planned reps x weight for an exercise
  Session    One run through a routine; finished sessions go to history

QUICK START:

  $ lift routine add "Push Day"
  $ lift exercise add "Push Day" "Bench Press"
  $ lift set add "Push Day" "Bench Press" --reps 5 --weight 100
  $ lift session start "Push Day"        # Interactive workout
  $ lift history list                    # See finished sessions

Routines, exercises and sets can be referenced by name, by the 8-character
ID shown in listings, or (for exercises and sets) by 1-based position.

STORAGE:

  Data lives in SQLite at ~/.local/share/lift/lift.db by default.
  Choose another backend with --backend or the config file
  (~/.config/lift/config.json):

    sqlite   Local SQLite database (default)
    charm    Charm KV, E2E encrypted and synced across devices
    redis    A shared Redis server
    memory   Nothing is saved (handy for trying things out)

MCP INTEGRATION:

  Run 'lift mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants. Add to your Claude
  config:

  {
    "mcpServers": {
      "lift": { "command": "lift", "args": ["mcp"] }
    }
  }`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !needsApp(cmd) {
			return nil
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := logging.New(os.Stderr, cfg.LogLevel)

		// stdout carries the MCP protocol, so the server only logs.
		stdio := cmd.Name() == "mcp"
		deliver := announceRest
		if stdio {
			deliver = func(p notify.Payload) {
				logger.Info("rest timer fired", "title", p.Title, "body", p.Body)
			}
		}

		lift, err = app.Open(cmd.Context(), cfg, logger, deliver)
		if err != nil {
			return fmt.Errorf("failed to open lift data: %w", err)
		}
		for _, loadErr := range lift.LoadErrors {
			if stdio {
				logger.Warn("changes will not be saved", "err", loadErr)
				continue
			}
			color.Yellow("⚠ %v (changes this run will not be saved)", loadErr)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeApp()
	},
}

// skipApp lists commands that manage storage themselves or touch none.
var skipApp = map[string]bool{
	"help":          true,
	"version":       true,
	"install-skill": true,
	"migrate":       true,
	"link":          true,
	"unlink":        true,
	"repair":        true,
	"reset":         true,
	"wipe":          true,
}

func needsApp(cmd *cobra.Command) bool {
	return !skipApp[cmd.Name()]
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if backendFlag != "" {
		cfg.Backend = backendFlag
	}
	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func closeApp() error {
	if lift == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	err := lift.Close(ctx)
	lift = nil
	return err
}

// announceRest rings the terminal bell when a rest timer fires.
func announceRest(p notify.Payload) {
	fmt.Print("\a")
	color.Cyan("\n⏱  %s: %s", p.Title, p.Body)
}

// Execute runs the root command. The App is closed even when a command
// fails, since PersistentPostRunE only runs after success.
func Execute() error {
	err := rootCmd.Execute()
	if cerr := closeApp(); err == nil {
		err = cerr
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "storage backend (sqlite, charm, redis, memory)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level (debug, info, warn, error)")
}
