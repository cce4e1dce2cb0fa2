package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aristath/pert/internal/config"
)

func newConfigCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration files",
	}

	cmd.AddCommand(
		newConfigInitCmd(s),
		newConfigShowCmd(s),
	)

	return cmd
}

func newConfigInitCmd(s *session) *cobra.Command {
	var global, force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := s.app.ProjectConfigPath
			if s.configPath != "" {
				path = s.configPath
			}
			if global {
				path = s.app.GlobalConfigPath
			}
			if path == "" {
				return usageError(errors.New("no config path to write"))
			}

			if _, err := os.Stat(path); err == nil && !force {
				return failure(fmt.Errorf("%s already exists (use --force to overwrite)", path))
			}

			if err := config.Save(config.DefaultConfig(), path); err != nil {
				return failure(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "Write the global config instead of the project config")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}

func newConfigShowCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.MarshalIndent(s.cfg, "", "  ")
			if err != nil {
				return failure(fmt.Errorf("marshaling config: %w", err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
