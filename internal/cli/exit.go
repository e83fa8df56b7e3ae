package cli

import (
	"context"
	"errors"

	gnerrors "github.com/matzehuels/gnparser/pkg/errors"
)

// Exit statuses of the gnparser binary.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 2   // invalid names, options, config or input files
	ExitInterrupted = 130 // shell convention for SIGINT
)

// ExitCode maps the error returned by the root command to a process exit
// status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	}
	switch gnerrors.GetCode(err) {
	case gnerrors.ErrCodeInvalidInput, gnerrors.ErrCodeInvalidFormat, gnerrors.ErrCodeInvalidCode,
		gnerrors.ErrCodeInvalidConfig, gnerrors.ErrCodeFileNotFound:
		return ExitUsage
	}
	return ExitFailure
}

// ReportError prints the user-facing message of err on stderr. Interrupted
// runs print nothing.
func ReportError(err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	printError("%s", gnerrors.UserMessage(err))
}
