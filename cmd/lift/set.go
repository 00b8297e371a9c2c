// ABOUTME: CLI commands for managing the planned sets of an exercise.
// ABOUTME: Supports add, update, toggle, and rm subcommands.
package main

import (
	"github.com/harperreed/lift/internal/models"
	"github.com/spf13/cobra"
)

var (
	setReps   string
	setWeight string
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Manage planned sets",
	Long: `Add and edit the planned sets of an exercise.

Sets are referenced by 1-based position or ID prefix. Reps are whole
numbers; fractional input is rounded down. Invalid or negative numbers
become 0.

EXAMPLES:

  lift set add "Push Day" "Bench Press" --reps 5 --weight 100
  lift set update "Push Day" 1 2 8 60      # Exercise 1, set 2: 8 x 60
  lift set toggle "Push Day" 1 2           # Mark set done / not done
  lift set rm "Push Day" 1 2`,
}

var setAddCmd = &cobra.Command{
	Use:   "add <routine> <exercise>",
	Short: "Add a set",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, e, err := resolveExercise(args[0], args[1])
		if err != nil {
			return err
		}
		res := lift.Routines.AddSet(r.ID, e.ID)
		if !res.Success {
			return report(res)
		}
		if setReps != "" || setWeight != "" {
			upd := lift.Routines.UpdateSet(r.ID, e.ID, res.ID, parseAmount(setReps), parseAmount(setWeight))
			if !upd.Success {
				return report(upd)
			}
		}
		return report(res)
	},
}

var setUpdateCmd = &cobra.Command{
	Use:     "update <routine> <exercise> <set> <reps> <weight>",
	Aliases: []string{"edit"},
	Short:   "Change reps and weight of a set",
	Args:    cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, e, s, err := resolveSet(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		return report(lift.Routines.UpdateSet(r.ID, e.ID, s.ID, parseAmount(args[3]), parseAmount(args[4])))
	},
}

var setToggleCmd = &cobra.Command{
	Use:   "toggle <routine> <exercise> <set>",
	Short: "Flip a set between done and not done",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, e, s, err := resolveSet(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		return report(lift.Routines.ToggleSetCompletion(r.ID, e.ID, s.ID))
	},
}

var setRmCmd = &cobra.Command{
	Use:     "rm <routine> <exercise> <set>",
	Aliases: []string{"delete", "del"},
	Short:   "Remove a set",
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, e, s, err := resolveSet(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		return report(lift.Routines.RemoveSet(r.ID, e.ID, s.ID))
	},
}

// parseAmount reads a reps or weight argument; bad input becomes 0.
func parseAmount(s string) float64 {
	return models.ParseNumber(s, 0)
}

func init() {
	setAddCmd.Flags().StringVar(&setReps, "reps", "", "planned reps")
	setAddCmd.Flags().StringVar(&setWeight, "weight", "", "planned weight")

	setCmd.AddCommand(setAddCmd)
	setCmd.AddCommand(setUpdateCmd)
	setCmd.AddCommand(setToggleCmd)
	setCmd.AddCommand(setRmCmd)
	rootCmd.AddCommand(setCmd)
}
