// ABOUTME: CLI commands for exporting and importing lift data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/lift/internal/storage"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportSince  string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export lift data",
	Long: `Export routines and workout history in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable, also importable)
  markdown   Markdown report of routines and sessions

OPTIONS:

  --output, -o   Write to file instead of stdout
  --since        Only include sessions since this date (markdown only)

EXAMPLES:

  lift export json                        # Export all data as JSON
  lift export json -o backup.json         # Save to file
  lift export yaml                        # Export as YAML
  lift export markdown --since 2026-01-01 # Sessions from 2026 onward`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]
		export := storage.NewExport(lift.Routines.Routines(), lift.History.Sessions())

		var data []byte
		var err error

		switch format {
		case "json":
			data, err = export.JSON()
		case "yaml":
			data, err = export.YAML()
		case "markdown":
			var since *time.Time
			if exportSince != "" {
				t, perr := parseTime(exportSince)
				if perr != nil {
					return fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", exportSince)
				}
				since = &t
			}
			data = []byte(export.Markdown(since))
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
		} else {
			fmt.Println(string(data))
		}

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import lift data from JSON or YAML",
	Long: `Import routines and sessions from a previously exported file.

Routines are added with fresh IDs; a routine whose name is already taken
is skipped. Sessions already in history (same ID) are skipped.

EXAMPLES:

  lift import backup.json
  lift import backup.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		export, err := storage.ParseExport(data)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		report := lift.Routines.Import(export.Routines)
		sessions := lift.History.Import(export.Sessions)

		color.Green("✓ Imported from %s", filename)
		fmt.Printf("  Routines: %d added\n", report.Added)
		fmt.Printf("  Sessions: %d added\n", sessions)
		for _, name := range report.Skipped {
			color.Yellow("⚠ Skipped routine %q (invalid or duplicate name)", name)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include sessions since date (YYYY-MM-DD)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
