// ABOUTME: CLI commands for managing exercises inside a routine.
// ABOUTME: Supports add, rename, rest, and rm subcommands.
package main

import (
	"github.com/harperreed/lift/internal/models"
	"github.com/spf13/cobra"
)

var exerciseCmd = &cobra.Command{
	Use:     "exercise",
	Aliases: []string{"ex", "e"},
	Short:   "Manage exercises in a routine",
	Long: `Add and edit the exercises of a routine.

Exercise names are unique within their routine. New exercises rest 60
seconds between sets.

EXAMPLES:

  lift exercise add "Push Day" "Bench Press"
  lift exercise rest "Push Day" 1 90       # 90s rest for the first exercise
  lift exercise rename "Push Day" bench "Incline Bench"
  lift exercise rm "Push Day" "Incline Bench"`,
}

var exerciseAddCmd = &cobra.Command{
	Use:   "add <routine> <name>",
	Short: "Add an exercise",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := resolveRoutine(args[0])
		if err != nil {
			return err
		}
		return report(lift.Routines.AddExercise(r.ID, args[1]))
	},
}

var exerciseRenameCmd = &cobra.Command{
	Use:     "rename <routine> <exercise> <new-name>",
	Aliases: []string{"mv"},
	Short:   "Rename an exercise",
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, e, err := resolveExercise(args[0], args[1])
		if err != nil {
			return err
		}
		return report(lift.Routines.UpdateExercise(r.ID, e.ID, args[2]))
	},
}

var exerciseRestCmd = &cobra.Command{
	Use:   "rest <routine> <exercise> <seconds>",
	Short: "Set rest time between sets",
	Long: `Set the rest interval, in seconds, that starts after each completed set.

Invalid or negative values reset the rest time to 60 seconds. Use 0 to
disable the rest timer.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, e, err := resolveExercise(args[0], args[1])
		if err != nil {
			return err
		}
		seconds := models.ParseNumber(args[2], models.DefaultRestTime)
		return report(lift.Routines.UpdateExerciseRestTime(r.ID, e.ID, seconds))
	},
}

var exerciseRmCmd = &cobra.Command{
	Use:     "rm <routine> <exercise>",
	Aliases: []string{"delete", "del"},
	Short:   "Remove an exercise",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, e, err := resolveExercise(args[0], args[1])
		if err != nil {
			return err
		}
		return report(lift.Routines.RemoveExercise(r.ID, e.ID))
	},
}

func init() {
	exerciseCmd.AddCommand(exerciseAddCmd)
	exerciseCmd.AddCommand(exerciseRenameCmd)
	exerciseCmd.AddCommand(exerciseRestCmd)
	exerciseCmd.AddCommand(exerciseRmCmd)
	rootCmd.AddCommand(exerciseCmd)
}
