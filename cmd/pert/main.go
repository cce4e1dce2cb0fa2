package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aristath/pert/internal/cli"
	"github.com/aristath/pert/internal/config"
)

func main() {
	// Minimal logger until the configured one is installed.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		stop()
		os.Exit(report(os.Stderr, err))
	}
}

// run executes the command line against the conventional config locations.
func run(ctx context.Context, stdout, stderr io.Writer, args []string) error {
	app := &cli.App{ProjectConfigPath: config.ProjectPath()}

	globalPath, err := config.GlobalPath()
	if err != nil {
		slog.Warn("global config disabled", "error", err)
	} else {
		app.GlobalConfigPath = globalPath
	}

	return cli.Execute(ctx, app, args, stdout, stderr)
}

// report prints err and returns the process exit code for it.
func report(w io.Writer, err error) int {
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		fmt.Fprintf(w, "Error: %s\n", exitErr.Message)
		return exitErr.Code
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	return cli.ExitFailure
}
