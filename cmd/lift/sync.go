// ABOUTME: CLI commands for Charm-based sync.
// ABOUTME: Supports now, link, unlink, status, repair, reset, and wipe operations.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	charmkv "github.com/charmbracelet/charm/kv"
	"github.com/fatih/color"
	"github.com/harperreed/lift/internal/charm"
	"github.com/harperreed/lift/internal/rediskv"
	"github.com/harperreed/lift/internal/storage"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:     "sync",
	Aliases: []string{"s"},
	Short:   "Sync lift data across devices",
	Long: `Sync routines and history across devices using Charm Cloud.

Sync applies when the storage backend is "charm". Your data is E2E
encrypted with your SSH key before upload.

GETTING STARTED:

  1. Switch to the charm backend in ~/.config/lift/config.json:
     { "backend": "charm" }

  2. Link your device (creates/uses SSH key automatically):
     lift sync link

  3. Check sync status:
     lift sync status

COMMANDS:

  now         Push and pull changes immediately
  link        Link this device to your Charm account
  unlink      Disconnect this device from Charm
  status      Show backend, account and local data info
  repair      Repair database corruption (checkpoints WAL, removes SHM, vacuums)
  reset       Reset local data and restore from cloud (destructive)
  wipe        Delete cloud and local data (destructive)

With the charm backend, data syncs automatically after each change.`,
}

var syncNowCmd = &cobra.Command{
	Use:   "now",
	Short: "Sync with Charm Cloud now",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, ok := lift.Backend.(*charm.Client)
		if !ok {
			color.Yellow("⚠ Sync needs the charm backend (current: %s)", lift.Config.GetBackend())
			return nil
		}
		if err := lift.Writer.Flush(cmd.Context()); err != nil {
			return fmt.Errorf("flush pending writes: %w", err)
		}
		if err := client.Sync(); err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		color.Green("✓ Synced with %s", lift.Config.GetCharmHost())
		return nil
	},
}

var syncLinkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link this device to Charm",
	Long: `Link this device to your Charm account.

If you don't have a Charm account, one will be created using your SSH key.
If you already have an account, you'll be prompted to link via charm.sh.

Example:
  lift sync link`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCharm("link"); err != nil {
			return fmt.Errorf("failed to link: %w\n\nMake sure 'charm' CLI is installed: go install github.com/charmbracelet/charm@latest", err)
		}

		color.Green("\n✓ Device linked to Charm")
		fmt.Println("Your lift data will now sync automatically when the charm backend is selected.")
		return nil
	},
}

var syncUnlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Disconnect from Charm",
	Long: `Disconnect this device from Charm.

This does not delete your local lift data.
You can link again later with 'lift sync link'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCharm("unlink"); err != nil {
			return fmt.Errorf("failed to unlink: %w", err)
		}

		color.Green("✓ Device unlinked from Charm")
		fmt.Println("Your local lift data is preserved.")
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	Long: `Show current sync status including:
- Storage backend and location
- Charm account info (charm backend)
- Local data counts`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := lift.Config
		fmt.Println("Backend:", cfg.GetBackend())

		switch backend := lift.Backend.(type) {
		case *storage.DB:
			fmt.Println("Database:", backend.Path())
		case *charm.Client:
			fmt.Println("Server:", cfg.GetCharmHost())
			id, err := backend.ID()
			if err != nil {
				color.Yellow("⚠ Not linked to Charm")
				fmt.Println("\nRun 'lift sync link' to connect to Charm.")
			} else {
				fmt.Println("Charm ID:", id)
				color.Green("✓ Connected to Charm")
			}
			if backend.IsReadOnly() {
				color.Yellow("⚠ Read-only: another lift process holds the database")
			}
		case *rediskv.Store:
			fmt.Println("Redis:", cfg.GetRedisAddr())
		}

		fmt.Println()
		fmt.Printf("  Routines: %d\n", lift.Routines.Count())
		fmt.Printf("  Sessions: %d\n", lift.History.Count())
		return nil
	},
}

var syncWipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete all cloud and local data",
	Long: `Delete every Charm Cloud backup and the local charm database.

Routines and session history are gone for good afterwards. Type "wipe"
at the prompt to go ahead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Cloud backups and local lift data will be deleted permanently.")
		if !confirm(cmd.InOrStdin(), out, "Type 'wipe' to confirm: ", "wipe") {
			fmt.Fprintln(out, "Canceled.")
			return nil
		}

		result, err := charmkv.Wipe(charm.DefaultDBName)
		if err != nil {
			return fmt.Errorf("wipe failed: %w", err)
		}
		color.New(color.FgGreen).Fprintf(out, "✓ Wiped %d cloud backups and %d local files\n",
			result.CloudBackupsDeleted, result.LocalFilesDeleted)
		return nil
	},
}

var syncRepairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Repair database corruption",
	Long: `Repair the local charm database after lock errors or corruption.

The WAL is checkpointed, a stale SHM file removed, integrity checked and
the file vacuumed. --force keeps going when the integrity check fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		force, _ := cmd.Flags().GetBool("force")

		fmt.Fprintln(out, "Repairing lift database...")
		result, err := charmkv.Repair(charm.DefaultDBName, force)
		for _, step := range []struct {
			ok   bool
			name string
		}{
			{result.WalCheckpointed, "WAL checkpointed"},
			{result.ShmRemoved, "SHM file removed"},
			{result.IntegrityOK, "integrity check"},
			{result.Vacuumed, "vacuumed"},
		} {
			if step.ok {
				color.New(color.FgGreen).Fprintf(out, "  ✓ %s\n", step.name)
			} else {
				color.New(color.Faint).Fprintf(out, "  - %s skipped or failed\n", step.name)
			}
		}
		if err != nil {
			if !force {
				color.New(color.FgYellow).Fprintln(out, "Run with --force to attempt recovery.")
			}
			return fmt.Errorf("repair failed: %w", err)
		}
		color.New(color.FgGreen).Fprintln(out, "✓ Repair complete")
		return nil
	},
}

var syncResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset local data and restore from cloud",
	Long: `Drop the local charm database and pull a fresh copy from Charm Cloud.

Useful when a device has drifted from the cloud copy. Anything not yet
synced is lost.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Local lift data will be replaced by the cloud copy.")
		if !confirm(cmd.InOrStdin(), out, "Continue? [y/N]: ", "y", "yes") {
			fmt.Fprintln(out, "Canceled.")
			return nil
		}

		if err := charmkv.Reset(charm.DefaultDBName); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}
		color.New(color.FgGreen).Fprintln(out, "✓ Local data restored from cloud")
		return nil
	},
}

// confirm prompts once and reports whether the answer is one of accept,
// ignoring case.
func confirm(in io.Reader, out io.Writer, prompt string, accept ...string) bool {
	fmt.Fprint(out, prompt)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	answer = strings.TrimSpace(answer)
	for _, a := range accept {
		if strings.EqualFold(answer, a) {
			return true
		}
	}
	return false
}

// runCharm runs the charm CLI attached to the terminal.
func runCharm(args ...string) error {
	charmCmd := exec.Command("charm", args...)
	charmCmd.Stdin = os.Stdin
	charmCmd.Stdout = os.Stdout
	charmCmd.Stderr = os.Stderr
	return charmCmd.Run()
}

func init() {
	syncCmd.AddCommand(syncNowCmd)
	syncCmd.AddCommand(syncLinkCmd)
	syncCmd.AddCommand(syncUnlinkCmd)
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncRepairCmd)
	syncCmd.AddCommand(syncResetCmd)
	syncCmd.AddCommand(syncWipeCmd)

	syncRepairCmd.Flags().Bool("force", false, "Attempt recovery even if integrity checks fail")

	rootCmd.AddCommand(syncCmd)
}
