package cli

import (
	"errors"
	"fmt"
)

// ExitError represents a command failure that has already been reported to
// the user and only needs to set the process exit code.
//
// Commands return NewExitError(code) instead of calling os.Exit so that tests
// can assert on exit codes. [RunWithConfig] extracts the code with
// [IsExitError] for [ExecuteResult], and [Execute] performs the actual exit.
type ExitError struct {
	// Code is the exit code to return to the shell.
	// Convention: 0 = success, 1 = general error.
	Code int
}

// Error implements the error interface, returning "exit status N" to match
// the os/exec ExitError format.
func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewExitError creates an [ExitError] with the given exit code.
//
// Use this in Cobra RunE functions after printing the failure:
//
//	if err != nil {
//	    app.Printer.Error(err)
//	    return NewExitError(1)
//	}
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

// IsExitError checks if err is or wraps an [ExitError] and extracts its exit code.
//
// Returns (code, true) for an *ExitError and (0, false) for nil or any other error.
func IsExitError(err error) (int, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}
