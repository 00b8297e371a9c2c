// ABOUTME: CLI command for moving lift data between storage backends.
// ABOUTME: Copies routines and history, e.g. from SQLite to Charm or Redis.
package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/lift/internal/logging"
	"github.com/harperreed/lift/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateFrom   string
	migrateTo     string
	migrateDryRun bool
	migrateForce  bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy lift data between storage backends",
	Long: `Copy routines and workout history from one storage backend to another.

Backends are sqlite, charm, redis and memory; connection details come from
~/.config/lift/config.json.

IMPORTANT:

  - The source is never modified
  - A destination that already has lift data is NOT overwritten unless
    --force is given
  - Run with --dry-run first to see what would be copied
  - Afterwards set "backend" in the config file to the destination

USAGE:

  lift migrate --from sqlite --to charm --dry-run   # Preview
  lift migrate --from sqlite --to charm             # Copy
  lift migrate --from charm --to redis --force      # Overwrite Redis`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		from, to := strings.ToLower(migrateFrom), strings.ToLower(migrateTo)
		if from == to {
			return fmt.Errorf("source and destination are both %s", from)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := logging.New(cmd.ErrOrStderr(), cfg.LogLevel)

		srcCfg, dstCfg := *cfg, *cfg
		srcCfg.Backend, dstCfg.Backend = from, to

		src, err := srcCfg.OpenStorage(cmd.Context(), logger)
		if err != nil {
			return fmt.Errorf("failed to open source %s: %w", from, err)
		}
		defer src.Close()

		dst, err := dstCfg.OpenStorage(cmd.Context(), logger)
		if err != nil {
			return fmt.Errorf("failed to open destination %s: %w", to, err)
		}
		defer dst.Close()

		if migrateDryRun {
			color.Yellow("Dry run mode - no changes will be made")
			fmt.Println()
		}

		summary, err := storage.MigrateData(cmd.Context(), src, dst, migrateForce, migrateDryRun)
		if errors.Is(err, storage.ErrDestinationNotEmpty) {
			return fmt.Errorf("%w\n\nRun with --force to overwrite it", err)
		}
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		if len(summary.Keys) == 0 {
			color.Yellow("⚠ No lift data found in %s", from)
			return nil
		}

		verb := "Copied"
		if migrateDryRun {
			verb = "Would copy"
		}
		color.Green("✓ %s %s from %s to %s (%d bytes)", verb, strings.Join(summary.Keys, " and "), from, to, summary.Bytes)
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", "sqlite", "source backend")
	migrateCmd.Flags().StringVar(&migrateTo, "to", "charm", "destination backend")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "overwrite data already in the destination")
	rootCmd.AddCommand(migrateCmd)
}
