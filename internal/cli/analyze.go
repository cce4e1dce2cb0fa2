package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aristath/pert/internal/ctxlog"
	"github.com/aristath/pert/internal/graph"
	"github.com/aristath/pert/internal/report"
)

func newAnalyzeCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [FILE]",
		Short: "Analyse a project file, or the built-in example",
		Long: `Analyse FILE and print the schedule. Without FILE the built-in 10-task
example is analysed. A graph with a cycle prints "Invalid graph: not a DAG"
and still exits 0.`,
		Args: maxArgs(1),
		RunE: s.runAnalyze,
	}
}

// runAnalyze backs both "pert analyze [FILE]" and the bare "pert [FILE]".
func (s *session) runAnalyze(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}

	p, err := s.loadProject(path)
	if err != nil {
		return err
	}
	ctxlog.FromContext(cmd.Context()).Debug("project loaded",
		"name", p.Name, "vertices", p.Graph.Size(), "edges", p.Graph.NumEdges())

	return s.analyzeAndReport(cmd.OutOrStdout(), p)
}

// loadProject reads path, or the built-in example when path is empty.
func (s *session) loadProject(path string) (*graph.Project, error) {
	if path == "" {
		p, err := graph.ReadText(strings.NewReader(graph.BuiltinExample))
		if err != nil {
			return nil, failure(err)
		}
		p.Name = "example"
		return p, nil
	}

	p, err := graph.LoadFile(path, s.inputFormat)
	if err != nil {
		return nil, failure(err)
	}
	return p, nil
}

// analyzeAndReport prints the optional graph dump and the report for p.
func (s *session) analyzeAndReport(w io.Writer, p *graph.Project) error {
	if s.cfg.Output.PrintGraph {
		if _, err := fmt.Fprint(w, p.Graph.String()); err != nil {
			return failure(err)
		}
	}

	res, err := s.analyze(p)
	if err != nil {
		return err
	}

	if err := report.Write(w, s.cfg.Output.Format, p, res); err != nil {
		return failure(err)
	}
	return nil
}
