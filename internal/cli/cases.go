package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/aristath/pert/internal/ctxlog"
	"github.com/aristath/pert/internal/events"
	"github.com/aristath/pert/internal/report"
	"github.com/aristath/pert/internal/runner"
)

func newCasesCmd(s *session) *cobra.Command {
	var all bool
	var ext string

	cmd := &cobra.Command{
		Use:   "cases [DIR]",
		Short: "Run test case files from a directory",
		Long: `List the case files in DIR (default cases.dir from the config) and run
them. On an interactive terminal a single case is picked from a menu unless
--all is given; otherwise every case is run in name order.`,
		Args: maxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := s.cfg.Cases.Dir
			if len(args) == 1 {
				dir = args[0]
			}
			if !cmd.Flags().Changed("ext") {
				ext = s.cfg.Cases.Ext
			}

			out := cmd.OutOrStdout()
			paths, err := runner.FindCases(dir, ext)
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return failure(err)
			}
			if len(paths) == 0 {
				fmt.Fprintf(out, "No test cases found in the directory: %s\n", dir)
				return nil
			}

			// Prompt for one case on a terminal unless --all
			if !all && s.app.isInteractive() {
				choice, err := s.app.pickCase(paths)
				if errors.Is(err, huh.ErrUserAborted) {
					fmt.Fprintln(out, "No test case selected.")
					return nil
				}
				if err != nil {
					return failure(err)
				}
				fmt.Fprintf(out, "Selected Test Case: %s\n", filepath.Base(choice))
				paths = []string{choice}
			}

			return s.runCases(cmd, paths)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Run every case without prompting")
	cmd.Flags().StringVar(&ext, "ext", "", "Case file extension (default cases.ext from the config)")

	return cmd
}

// runCases analyses paths through the batch runner and prints each report,
// then a summary table when more than one case ran.
func (s *session) runCases(cmd *cobra.Command, paths []string) error {
	ctx := cmd.Context()
	logger := ctxlog.FromContext(ctx)
	out := cmd.OutOrStdout()

	// Log case events as they arrive
	bus := events.NewEventBus()
	sub := bus.SubscribeAll(0)
	logged := make(chan struct{})
	go func() {
		runner.LogEvents(logger, sub)
		close(logged)
	}()

	r := runner.New(runner.Config{
		InputFormat: s.inputFormat,
		Options:     s.options(),
		Bus:         bus,
	})
	results, runErr := r.RunAll(ctx, paths)

	// Close the bus and wait for the logger to drain
	bus.Close()
	<-logged
	if dropped := bus.Dropped(); dropped > 0 {
		logger.Warn("progress events dropped", "count", dropped)
	}

	// Print each report in case order
	failed := 0
	for i, res := range results {
		if len(paths) > 1 {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "== %s ==\n", filepath.Base(res.Path))
		}

		if res.Outcome == runner.OutcomeFailed {
			failed++
			fmt.Fprintf(out, "Error: %v\n", res.Err)
			continue
		}
		if s.cfg.Output.PrintGraph {
			fmt.Fprint(out, res.Project.Graph.String())
		}
		if err := report.Write(out, s.cfg.Output.Format, res.Project, res.Result); err != nil {
			return failure(err)
		}
	}

	if len(results) > 1 {
		fmt.Fprintln(out)
		fmt.Fprint(out, summaryTable(results))
	}

	if runErr != nil {
		return failure(fmt.Errorf("batch interrupted after %d of %d cases: %w", len(results), len(paths), runErr))
	}
	if failed > 0 {
		return &ExitError{Code: ExitFailure, Message: fmt.Sprintf("%d of %d cases failed", failed, len(results))}
	}
	return nil
}

func summaryTable(results []runner.CaseResult) string {
	headers := []string{"CASE", "OUTCOME", "TASKS", "CRITICAL PATH", "CRITICAL", "TIME"}
	rows := make([][]string, len(results))
	for i, res := range results {
		row := []string{filepath.Base(res.Path), res.Outcome.String(), "-", "-", "-", res.Duration.String()}
		switch res.Outcome {
		case runner.OutcomeAnalyzed:
			a, _ := res.Result.Analysis()
			row[2] = strconv.Itoa(a.Size())
			row[3] = strconv.Itoa(a.CriticalPath())
			row[4] = strconv.Itoa(a.NumCritical())
		case runner.OutcomeRejected:
			row[1] = report.StyleWarn.Render(row[1])
			row[2] = strconv.Itoa(res.Project.Graph.Size())
		case runner.OutcomeFailed:
			row[1] = report.StyleCritical.Render(row[1])
		}
		rows[i] = row
	}
	return report.RenderTable(headers, rows)
}

// pickCaseForm shows a huh select over cases and returns the chosen path.
func pickCaseForm(cases []string) (string, error) {
	options := make([]huh.Option[string], len(cases))
	for i, c := range cases {
		options[i] = huh.NewOption(fmt.Sprintf("[%d] %s", i+1, filepath.Base(c)), c)
	}

	var choice string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select a test case to run").
				Options(options...).
				Value(&choice),
		),
	).WithShowHelp(false).Run()
	return choice, err
}
