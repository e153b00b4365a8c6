package cli

import (
	"errors"

	"github.com/user/novelpack/internal/entity"
)

// Process exit codes.
const (
	ExitOK        = 0
	ExitUserInput = 1
	ExitNetwork   = 2
	ExitFailure   = 3
)

// ExitCode maps a run error to the process exit code. A missing table of contents is
// not a failure.
func ExitCode(err error) int {
	switch {
	case err == nil, errors.Is(err, entity.ErrTocNotFound):
		return ExitOK
	case errors.Is(err, entity.ErrUserInput):
		return ExitUserInput
	case errors.Is(err, entity.ErrNetwork):
		return ExitNetwork
	default:
		return ExitFailure
	}
}
