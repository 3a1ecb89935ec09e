// Package apperr defines the sentinel errors of the status rotator and
// their process exit codes.
package apperr

import "errors"

var (
	// ErrUsage covers missing or malformed command-line arguments.
	ErrUsage = errors.New("invalid arguments")
	// ErrNotFound means the status file does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState means the status file exists but its first line does
	// not end in a digit run.
	ErrInvalidState = errors.New("invalid file state")
)

// Exit codes of the command-line surface.
const (
	ExitOK           = 0
	ExitUsage        = 1
	ExitNotFound     = 2
	ExitInvalidState = 3
)

// ExitCode maps an error to its process exit code. Errors outside the
// taxonomy (I/O failures, permission problems) map to code 1.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrNotFound):
		return ExitNotFound
	case errors.Is(err, ErrInvalidState):
		return ExitInvalidState
	default:
		return ExitUsage
	}
}
