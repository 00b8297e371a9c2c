// ABOUTME: CLI commands for managing routines.
// ABOUTME: Supports add, list, show, rename, and rm subcommands.
package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/lift/internal/models"
	"github.com/harperreed/lift/internal/routines"
	"github.com/spf13/cobra"
)

var routineCmd = &cobra.Command{
	Use:     "routine",
	Aliases: []string{"r"},
	Short:   "Manage workout routines",
	Long: `Plan workout routines.

A routine is a named list of exercises, each with its own planned sets.
Routine names are unique (ignoring case) and 2 to 120 characters long.

COMMANDS:

  add      Create an empty routine
  list     List routines
  show     Show a routine with its exercises and sets
  rename   Rename a routine
  rm       Delete a routine

EXAMPLES:

  lift routine add "Push Day"
  lift routine show push            # Name or ID prefix
  lift routine rename "Push Day" "Chest Day"`,
}

var routineAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a routine",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res := lift.Routines.AddRoutine(args[0])
		if err := report(res); err != nil {
			return err
		}
		fmt.Printf("  ID: %s\n", shortID(res.ID))
		return nil
	},
}

var routineListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List routines",
	Long: `List your routines.

Each line shows: ID  NAME  EXERCISES  SETS  LAST PERFORMED

The ID is an 8-character prefix you can use with other commands.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		all := lift.Routines.Routines()
		if len(all) == 0 {
			fmt.Println("No routines found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, r := range all {
			last := "never"
			if sum := lift.History.Summary(r.ID); sum.LastPerformed != nil {
				last = sum.LastPerformed.Local().Format("2006-01-02")
			}
			fmt.Printf("%s %s %2d exercises %3d sets  %s\n",
				faint.Sprint(shortID(r.ID)),
				padRight(truncate(r.Name, 30), 30),
				len(r.Exercises),
				r.SetCount(),
				faint.Sprint(last))
		}
		return nil
	},
}

var routineShowCmd = &cobra.Command{
	Use:   "show <routine>",
	Short: "Show a routine",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := resolveRoutine(args[0])
		if err != nil {
			return err
		}
		printRoutine(r)
		return nil
	},
}

var routineRenameCmd = &cobra.Command{
	Use:     "rename <routine> <new-name>",
	Aliases: []string{"mv"},
	Short:   "Rename a routine",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := resolveRoutine(args[0])
		if err != nil {
			return err
		}
		return report(lift.Routines.UpdateRoutine(r.ID, args[1]))
	},
}

var routineRmCmd = &cobra.Command{
	Use:     "rm <routine>",
	Aliases: []string{"delete", "del"},
	Short:   "Delete a routine",
	Long: `Delete a routine with all its exercises and sets.

Finished sessions of the routine stay in history.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := resolveRoutine(args[0])
		if err != nil {
			return err
		}
		return report(lift.Routines.RemoveRoutine(r.ID))
	},
}

func printRoutine(r models.Routine) {
	faint := color.New(color.Faint)
	bold := color.New(color.Bold)

	fmt.Printf("%s %s\n", bold.Sprint(r.Name), faint.Sprint(shortID(r.ID)))
	if len(r.Exercises) == 0 {
		fmt.Println("  No exercises yet.")
		return
	}
	for i, e := range r.Exercises {
		fmt.Printf("  %d. %s %s\n", i+1, e.Name, faint.Sprintf("(rest %ds, %s)", e.RestTime, shortID(e.ID)))
		for j, s := range e.Sets {
			mark := " "
			if s.IsCompleted {
				mark = color.GreenString("✓")
			}
			fmt.Printf("     %d) %s %s %s\n", j+1, padRight(formatSet(s.Reps, s.Weight), 14), mark, faint.Sprint(shortID(s.ID)))
		}
	}
}

// report prints a successful Result and turns a failed one into an error.
func report(res models.Result) error {
	if !res.Success {
		return errors.New(res.Message)
	}
	color.Green("✓ %s", res.Message)
	return nil
}

func resolveRoutine(ref string) (models.Routine, error) {
	r, ok := lift.Routines.Resolve(ref)
	if !ok {
		return models.Routine{}, fmt.Errorf("routine not found: %s", ref)
	}
	return r, nil
}

func resolveExercise(routineRef, exerciseRef string) (models.Routine, models.Exercise, error) {
	r, err := resolveRoutine(routineRef)
	if err != nil {
		return models.Routine{}, models.Exercise{}, err
	}
	e, ok := routines.ResolveExercise(r, exerciseRef)
	if !ok {
		return models.Routine{}, models.Exercise{}, fmt.Errorf("exercise not found in %s: %s", r.Name, exerciseRef)
	}
	return r, e, nil
}

func resolveSet(routineRef, exerciseRef, setRef string) (models.Routine, models.Exercise, models.Set, error) {
	r, e, err := resolveExercise(routineRef, exerciseRef)
	if err != nil {
		return models.Routine{}, models.Exercise{}, models.Set{}, err
	}
	s, ok := routines.ResolveSet(e, setRef)
	if !ok {
		return models.Routine{}, models.Exercise{}, models.Set{}, fmt.Errorf("set not found in %s: %s", e.Name, setRef)
	}
	return r, e, s, nil
}

func init() {
	routineCmd.AddCommand(routineAddCmd)
	routineCmd.AddCommand(routineListCmd)
	routineCmd.AddCommand(routineShowCmd)
	routineCmd.AddCommand(routineRenameCmd)
	routineCmd.AddCommand(routineRmCmd)
	rootCmd.AddCommand(routineCmd)
}
