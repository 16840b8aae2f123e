// Package clierr carries process exit statuses through cobra's error return.
//
// lint-runner distinguishes three ways a run can end badly: a check reported
// a finding, the environment broke, or the command line was wrong. Each has
// its own status so CI can tell a dirty tree from a broken runner.
package clierr

import (
	"errors"
	"fmt"
)

// Process exit statuses.
const (
	ExitOK          = 0
	ExitLintFailure = 1  // at least one check failed
	ExitFatal       = 2  // environment problem; the run was aborted
	ExitUsage       = 64 // bad flags, arguments or missing state dir (EX_USAGE)
)

// ExitCoder is implemented by errors that choose the process status.
type ExitCoder interface {
	error
	ExitCode() int
}

// ExitError pairs a user-facing message and optional cause with a status.
type ExitError struct {
	code  int
	msg   string
	cause error
}

func (e *ExitError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return e.msg + ": " + e.cause.Error()
}

func (e *ExitError) ExitCode() int { return e.code }
func (e *ExitError) Unwrap() error { return e.cause }

// New returns an ExitError with the given status and message.
func New(code int, msg string) error {
	return Wrap(code, msg, nil)
}

// Newf is New with a format string.
func Newf(code int, format string, args ...any) error {
	return Wrap(code, fmt.Sprintf(format, args...), nil)
}

// Wrap attaches a status and message to cause, which may be nil.
func Wrap(code int, msg string, cause error) error {
	if code <= 0 {
		// Zero would report success for an error.
		code = ExitLintFailure
	}
	return &ExitError{code: code, msg: msg, cause: cause}
}

// Fatal marks cause as an environment failure. A nil cause stays nil.
func Fatal(cause error) error {
	if cause == nil {
		return nil
	}
	return Wrap(ExitFatal, "lint-runner aborted", cause)
}

// ExitCodeOf returns the status for err. Errors without one come from cobra's
// argument and flag parsing and map to ExitUsage.
func ExitCodeOf(err error) int {
	if err == nil {
		return ExitOK
	}
	var ec ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return ExitUsage
}
