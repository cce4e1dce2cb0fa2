package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aristath/pert/internal/config"
	"github.com/aristath/pert/internal/report"
	"github.com/aristath/pert/internal/tui"
)

func newViewCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "view [FILE]",
		Short: "Browse a schedule in the terminal",
		Args:  maxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}

			p, err := s.loadProject(path)
			if err != nil {
				return err
			}
			res, err := s.analyze(p)
			if err != nil {
				return err
			}

			a, ok := res.Analysis()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), report.RejectedMessage)
				return nil
			}

			globalPath := s.app.GlobalConfigPath
			projectPath := s.app.ProjectConfigPath
			if s.configPath != "" {
				projectPath = s.configPath
			}
			if projectPath == "" {
				projectPath = config.ProjectPath()
			}

			if err := s.app.runViewer(tui.New(p, a, s.cfg, globalPath, projectPath)); err != nil {
				return failure(fmt.Errorf("running viewer: %w", err))
			}
			return nil
		},
	}
}
