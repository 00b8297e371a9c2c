// ABOUTME: CLI commands for browsing finished workout sessions.
// ABOUTME: Supports list, show, and summary subcommands.
package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/lift/internal/history"
	"github.com/harperreed/lift/internal/models"
	"github.com/spf13/cobra"
)

var (
	historyRoutine string
	historyLimit   int
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"h"},
	Short:   "Browse finished sessions",
	Long: `Browse workout sessions you have finished, most recent first.

EXAMPLES:

  lift history list                    # Last 20 sessions
  lift history list --routine "Push Day"
  lift history show 01JX2K             # Session ID prefix
  lift history summary --routine push  # Totals for one routine`,
}

var historyListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List finished sessions",
	Long: `List finished sessions.

Each line shows: ID  DATE  ROUTINE  DURATION  SETS  VOLUME`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, err := sessionsFor(historyRoutine)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}
		if historyLimit > 0 && len(sessions) > historyLimit {
			sessions = sessions[:historyLimit]
		}

		faint := color.New(color.Faint)
		for _, ws := range sessions {
			fmt.Printf("%s %s %s %8s %3d sets  %s\n",
				faint.Sprint(shortID(ws.ID)),
				faint.Sprint(ws.StartTime.Local().Format("2006-01-02 15:04")),
				padRight(truncate(ws.RoutineName, 24), 24),
				models.FormatDuration(ws.Duration),
				ws.TotalSetsCompleted,
				formatVolume(ws.TotalVolume))
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <session>",
	Short: "Show a finished session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := lift.History.Get(args[0])
		if errors.Is(err, history.ErrNotFound) {
			return fmt.Errorf("session not found: %s", args[0])
		}
		if err != nil {
			return err
		}

		faint := color.New(color.Faint)
		bold := color.New(color.Bold)
		fmt.Printf("%s %s\n", bold.Sprint(ws.RoutineName), faint.Sprint(ws.ID))
		fmt.Printf("  Started:  %s\n", ws.StartTime.Local().Format("2006-01-02 15:04"))
		fmt.Printf("  Duration: %s\n", models.FormatDuration(ws.Duration))
		fmt.Printf("  Sets:     %d\n", ws.TotalSetsCompleted)
		fmt.Printf("  Volume:   %s\n", formatVolume(ws.TotalVolume))
		for i, ex := range ws.Exercises {
			fmt.Printf("  %d. %s\n", i+1, ex.Name)
			for j, s := range ex.Sets {
				mark := faint.Sprint("skipped")
				if s.IsCompleted {
					mark = color.GreenString("✓")
					if s.CompletedAt != nil {
						mark += faint.Sprintf(" %s", s.CompletedAt.Local().Format("15:04"))
					}
				}
				fmt.Printf("     %d) %s %s\n", j+1, padRight(formatSet(s.Reps, s.Weight), 14), mark)
			}
		}
		return nil
	},
}

var historySummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show totals across sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, err := sessionsFor(historyRoutine)
		if err != nil {
			return err
		}
		sum := history.Summarize(sessions)
		if sum.Sessions == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		fmt.Printf("Sessions:       %d\n", sum.Sessions)
		fmt.Printf("Sets completed: %d\n", sum.TotalSets)
		fmt.Printf("Total volume:   %s\n", formatVolume(sum.TotalVolume))
		fmt.Printf("Best volume:    %s\n", formatVolume(sum.BestVolume))
		fmt.Printf("Time trained:   %s\n", models.FormatDuration(sum.TotalDuration))
		if sum.LastPerformed != nil {
			fmt.Printf("Last session:   %s\n", sum.LastPerformed.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

// sessionsFor returns all history, or one routine's when ref is set.
func sessionsFor(ref string) ([]models.WorkoutSession, error) {
	if ref == "" {
		return lift.History.Sessions(), nil
	}
	r, err := resolveRoutine(ref)
	if err != nil {
		return nil, err
	}
	return lift.Engine.SessionsByRoutine(r.ID), nil
}

func init() {
	historyListCmd.Flags().StringVarP(&historyRoutine, "routine", "r", "", "only sessions of this routine")
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "max number of results")
	historySummaryCmd.Flags().StringVarP(&historyRoutine, "routine", "r", "", "only sessions of this routine")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historySummaryCmd)
	rootCmd.AddCommand(historyCmd)
}
