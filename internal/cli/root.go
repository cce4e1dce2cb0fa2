// Package cli implements the pert command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/aristath/pert/internal/config"
	"github.com/aristath/pert/internal/ctxlog"
	"github.com/aristath/pert/internal/graph"
	"github.com/aristath/pert/internal/scheduler"
)

// App holds the environment the commands run against. Zero-valued hooks
// fall back to the real terminal.
type App struct {
	GlobalConfigPath  string
	ProjectConfigPath string

	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool
	// PickCase asks the user to choose one of cases.
	PickCase func(cases []string) (string, error)
	// RunViewer runs the schedule browser until the user quits.
	RunViewer func(m tea.Model) error
}

func (a *App) isInteractive() bool {
	if a.IsInteractive != nil {
		return a.IsInteractive()
	}
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

func (a *App) pickCase(cases []string) (string, error) {
	if a.PickCase != nil {
		return a.PickCase(cases)
	}
	return pickCaseForm(cases)
}

func (a *App) runViewer(m tea.Model) error {
	if a.RunViewer != nil {
		return a.RunViewer(m)
	}
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

var inputFormats = []string{graph.FormatAuto, graph.FormatText, graph.FormatHCL}

// session holds the global flags and the configuration resolved from them.
type session struct {
	app *App
	cfg *config.PertConfig

	configPath    string
	logLevel      string
	logFormat     string
	format        string
	sorter        string
	inputFormat   string
	printGraph    bool
	parallelSlack int
}

// NewRootCmd creates the top-level "pert" command.
func NewRootCmd(app *App) *cobra.Command {
	s := &session{app: app}

	root := &cobra.Command{
		Use:   "pert [FILE]",
		Short: "PERT schedule analysis for task graphs",
		Long: `pert computes earliest and latest start and finish times, slack and the
critical path of a task precedence graph. Graphs are read from the
whitespace text format ("N M", M edges "u v w", N durations) or from
HCL project files.

Without a subcommand pert analyses FILE, or the built-in example, like
"pert analyze".`,
		Args:              maxArgs(1),
		RunE:              s.runAnalyze,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: s.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&s.configPath, "config", "", "Project config file (default .pert/config.json)")
	pf.StringVar(&s.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&s.logFormat, "log-format", "", "Log format: text or json")
	pf.StringVarP(&s.format, "format", "f", "", "Report format: text, table or json")
	pf.StringVar(&s.sorter, "sorter", "", "Topological sort: dfs-iterative, dfs or kahn")
	pf.StringVar(&s.inputFormat, "input-format", graph.FormatAuto, "Input format: auto, text or hcl")
	pf.BoolVar(&s.printGraph, "print-graph", false, "Print the adjacency list before the report")
	pf.IntVar(&s.parallelSlack, "parallel-slack", 0, "Derive slack with this many workers")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	root.AddCommand(
		newAnalyzeCmd(s),
		newCasesCmd(s),
		newViewCmd(s),
		newConfigCmd(s),
	)

	return root
}

// setup loads the layered config, applies flag overrides and installs the logger.
func (s *session) setup(cmd *cobra.Command, _ []string) error {
	projectPath := s.app.ProjectConfigPath
	if s.configPath != "" {
		projectPath = s.configPath
	}

	// Load defaults, then global, then project config
	cfg, err := config.Load(s.app.GlobalConfigPath, projectPath)
	if err != nil {
		return failure(err)
	}

	// Explicitly set flags override the config files
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Output.Format = s.format
	}
	if flags.Changed("print-graph") {
		cfg.Output.PrintGraph = s.printGraph
	}
	if flags.Changed("sorter") {
		cfg.Analysis.Sorter = s.sorter
	}
	if flags.Changed("parallel-slack") {
		cfg.Analysis.ParallelSlack = s.parallelSlack
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = s.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = s.logFormat
	}

	// Validate the merged result
	if err := cfg.Validate(); err != nil {
		return usageError(err)
	}
	if !slices.Contains(inputFormats, s.inputFormat) {
		return usageError(fmt.Errorf("input format %q: must be one of %v", s.inputFormat, inputFormats))
	}
	s.cfg = cfg

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	// Install the configured logger for the subcommand
	logger := ctxlog.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	cmd.SetContext(ctxlog.WithLogger(ctx, logger))
	logger.Debug("configuration resolved",
		"format", cfg.Output.Format,
		"sorter", cfg.Analysis.Sorter,
		"parallel_slack", cfg.Analysis.ParallelSlack)
	return nil
}

// options translates the analysis settings into scheduler options.
func (s *session) options() []scheduler.Option {
	sorter, _ := scheduler.ParseSorter(s.cfg.Analysis.Sorter)
	opts := []scheduler.Option{scheduler.WithSorter(sorter)}
	if s.cfg.Analysis.ParallelSlack > 1 {
		opts = append(opts, scheduler.WithParallelSlack(s.cfg.Analysis.ParallelSlack))
	}
	return opts
}

// analyze runs the scheduler, mapping argument violations to usage errors.
func (s *session) analyze(p *graph.Project) (scheduler.Result, error) {
	res, err := scheduler.Analyze(p.Graph, p.Durations, s.options()...)
	switch {
	case errors.Is(err, scheduler.ErrInvalidArgument):
		return res, usageError(err)
	case err != nil:
		return res, failure(err)
	}
	return res, nil
}

// Execute runs the command line with the given output streams and returns
// the error to report, if any.
func Execute(ctx context.Context, app *App, args []string, stdout, stderr io.Writer) error {
	root := NewRootCmd(app)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}
