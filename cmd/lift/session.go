// ABOUTME: CLI commands for running a workout session from a routine.
// ABOUTME: The interactive loop toggles sets, edits them, and finishes or abandons.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/lift/internal/models"
	"github.com/harperreed/lift/internal/session"
	"github.com/spf13/cobra"
)

// elapsedEvery is how often the loop prints the running time.
var elapsedEvery = time.Minute

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"go"},
	Short:   "Run a workout session",
	Long: `Run a workout from one of your routines.

Starting a session copies the routine's exercises and sets with every set
marked not done. Completing a set starts that exercise's rest timer; lift
rings the terminal bell when the rest is over.

SESSION COMMANDS:

  show                               Show exercises, sets and stats
  done <exercise> <set>              Mark a set done (or not done again)
  edit <exercise> <set> <reps> <wt>  Change what you actually lifted
  rest                               Show running rest timers
  finish                             Save the session to history
  quit                               Abandon without saving

Exercises and sets are referenced by 1-based position, name or ID prefix.

EXAMPLE:

  $ lift session start "Push Day"
  > done 1 1
  > edit bench 2 6 105
  > done bench 2
  > finish`,
}

var sessionStartCmd = &cobra.Command{
	Use:   "start <routine>",
	Short: "Start a session and enter the workout loop",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := resolveRoutine(args[0])
		if err != nil {
			return err
		}
		if len(r.Exercises) == 0 {
			return fmt.Errorf("routine %s has no exercises yet", r.Name)
		}
		if _, err := lift.Engine.Start(r.ID, r.Name, r.Exercises); err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		var wg sync.WaitGroup
		defer func() {
			cancel()
			wg.Wait()
		}()

		out := cmd.OutOrStdout()
		faint := color.New(color.Faint)
		wg.Add(1)
		go func() {
			defer wg.Done()
			lift.Engine.Tick(ctx, elapsedEvery, func(elapsed time.Duration) {
				faint.Fprintf(out, "\n⏱  %s elapsed\n", models.FormatDuration(int(elapsed.Seconds())))
			})
		}()

		return runSession(ctx, cmd.InOrStdin(), out)
	},
}

// runSession reads loop commands until the session is finished, abandoned,
// or input ends. Ending input abandons the session.
func runSession(ctx context.Context, in io.Reader, out io.Writer) error {
	printSession(out)
	printSessionHelp(out)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		done, err := sessionCommand(ctx, out, fields)
		if err != nil {
			color.New(color.FgYellow).Fprintf(out, "⚠ %v\n", err)
		}
		if done {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	if lift.Engine.Abandon(ctx) {
		color.New(color.FgYellow).Fprintln(out, "\n⚠ Input closed; session abandoned")
	}
	return nil
}

// sessionCommand runs one loop command and reports whether the loop should end.
func sessionCommand(ctx context.Context, out io.Writer, fields []string) (bool, error) {
	green := color.New(color.FgGreen)

	switch strings.ToLower(fields[0]) {
	case "show", "s", "ls":
		printSession(out)

	case "done", "d", "x":
		if len(fields) != 3 {
			return false, errors.New("usage: done <exercise> <set>")
		}
		exID, setID, err := lift.Engine.Locate(fields[1], fields[2])
		if err != nil {
			return false, err
		}
		set, err := lift.Engine.ToggleSet(ctx, exID, setID)
		if err != nil {
			return false, err
		}
		if !set.IsCompleted {
			fmt.Fprintf(out, "Set %s marked not done\n", formatSet(set.Reps, set.Weight))
			return false, nil
		}
		green.Fprintf(out, "✓ Set %s done\n", formatSet(set.Reps, set.Weight))
		if left, ok := lift.Engine.Timers().Remaining(exID); ok {
			fmt.Fprintf(out, "  Rest %s\n", models.FormatDuration(roundSeconds(left)))
		}

	case "edit", "e":
		if len(fields) != 5 {
			return false, errors.New("usage: edit <exercise> <set> <reps> <weight>")
		}
		exID, setID, err := lift.Engine.Locate(fields[1], fields[2])
		if err != nil {
			return false, err
		}
		set, err := lift.Engine.EditSet(exID, setID, parseAmount(fields[3]), parseAmount(fields[4]))
		if err != nil {
			return false, err
		}
		green.Fprintf(out, "✓ Set is now %s\n", formatSet(set.Reps, set.Weight))

	case "rest", "r":
		printRestTimers(out)

	case "finish", "f":
		ws, ok := lift.Engine.Finish(ctx)
		if !ok {
			return true, session.ErrNoActiveSession
		}
		green.Fprintf(out, "✓ Finished %s\n", ws.RoutineName)
		fmt.Fprintf(out, "  Duration: %s\n", models.FormatDuration(ws.Duration))
		fmt.Fprintf(out, "  Sets completed: %d\n", ws.TotalSetsCompleted)
		fmt.Fprintf(out, "  Volume: %s\n", formatVolume(ws.TotalVolume))
		return true, nil

	case "quit", "q", "abandon":
		if lift.Engine.Abandon(ctx) {
			color.New(color.FgYellow).Fprintln(out, "⚠ Session abandoned; nothing was saved")
		}
		return true, nil

	case "help", "h", "?":
		printSessionHelp(out)

	default:
		return false, fmt.Errorf("unknown command %q (type help)", fields[0])
	}
	return false, nil
}

func printSession(out io.Writer) {
	ws, ok := lift.Engine.Current()
	if !ok {
		fmt.Fprintln(out, "No active session.")
		return
	}
	faint := color.New(color.Faint)
	bold := color.New(color.Bold)

	total := 0
	for _, ex := range ws.Exercises {
		total += len(ex.Sets)
	}
	elapsed := models.FormatDuration(int(lift.Engine.Elapsed().Seconds()))
	fmt.Fprintf(out, "%s  %s elapsed  %d/%d sets  volume %s\n",
		bold.Sprint(ws.RoutineName), elapsed, ws.TotalSetsCompleted, total, formatVolume(ws.TotalVolume))

	for i, ex := range ws.Exercises {
		resting := ""
		if left, ok := lift.Engine.Timers().Remaining(ex.ID); ok {
			resting = color.CyanString(" resting %s", models.FormatDuration(roundSeconds(left)))
		}
		fmt.Fprintf(out, "  %d. %s %s%s\n", i+1, ex.Name, faint.Sprintf("(rest %ds)", ex.RestTime), resting)
		for j, s := range ex.Sets {
			mark := " "
			if s.IsCompleted {
				mark = color.GreenString("✓")
			}
			fmt.Fprintf(out, "     %d) %s %s\n", j+1, padRight(formatSet(s.Reps, s.Weight), 14), mark)
		}
	}
}

func printRestTimers(out io.Writer) {
	ws, ok := lift.Engine.Current()
	if !ok {
		fmt.Fprintln(out, "No active session.")
		return
	}
	running := false
	for _, ex := range ws.Exercises {
		if left, ok := lift.Engine.Timers().Remaining(ex.ID); ok {
			fmt.Fprintf(out, "  %s %s left\n", padRight(ex.Name, 24), models.FormatDuration(roundSeconds(left)))
			running = true
		}
	}
	if !running {
		fmt.Fprintln(out, "No rest timers running.")
	}
}

func printSessionHelp(out io.Writer) {
	color.New(color.Faint).Fprintln(out, "Commands: show, done <ex> <set>, edit <ex> <set> <reps> <weight>, rest, finish, quit")
}

// roundSeconds rounds a remaining duration up to whole seconds for display.
func roundSeconds(d time.Duration) int {
	return int((d + time.Second - 1) / time.Second)
}

func formatVolume(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func init() {
	sessionCmd.AddCommand(sessionStartCmd)
	rootCmd.AddCommand(sessionCmd)
}
