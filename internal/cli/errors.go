package cli

import "github.com/spf13/cobra"

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1 // I/O, parse or analysis failures
	ExitUsage   = 2 // Bad flags, arguments or configuration values
)

// ExitError is an error that carries the process exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func usageError(err error) *ExitError {
	return &ExitError{Code: ExitUsage, Message: err.Error(), Err: err}
}

func failure(err error) *ExitError {
	return &ExitError{Code: ExitFailure, Message: err.Error(), Err: err}
}

// maxArgs is cobra.MaximumNArgs reporting violations as usage errors.
func maxArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MaximumNArgs(n)(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return usageError(err)
	}
	return nil
}
