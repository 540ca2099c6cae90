package cmd

import (
	"context"
	"errors"

	clierrors "github.com/salmonumbrella/qsutils/internal/errors"
)

const (
	ExitOK       = 0
	ExitError    = 1
	ExitUsage    = 2
	ExitCanceled = 130
)

// ExitCode maps a command error to the process exit code. Configuration
// problems, failed qstat runs and strict dispatch failures exit 1; bad
// arguments exit 2.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, context.Canceled) {
		return ExitCanceled
	}
	if clierrors.IsConfigError(err) {
		return ExitError
	}
	if clierrors.IsValidationError(err) || clierrors.IsUserError(err) {
		return ExitUsage
	}
	return ExitError
}
