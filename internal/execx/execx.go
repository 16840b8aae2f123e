// Package execx runs external commands synchronously and captures their output.
//
// A Command is a plain value describing what to run. An Executor turns it into
// an Output. Executors return an error only when the process could not be
// started at all; a process that ran and exited non-zero is reported through
// Output.ExitCode so callers can map it to a lint failure.
package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"unicode/utf8"
)

var (
	// ErrSpawn is returned when an external process could not be launched
	// (missing binary, permission denied, bad working directory).
	ErrSpawn = errors.New("failed to launch process")

	// ErrMalformedOutput is returned when a command that must print text
	// printed something that is not valid UTF-8.
	ErrMalformedOutput = errors.New("command output is not valid UTF-8")
)

// Command describes one external process invocation.
type Command struct {
	Name string
	Args []string
	Dir  string

	// Env, when non-nil, replaces the inherited environment.
	Env []string
}

// String renders the command line for logs and error messages.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Output holds what a finished process produced.
type Output struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Success reports whether the process exited with status zero.
func (o Output) Success() bool { return o.ExitCode == 0 }

// Executor runs a Command to completion.
type Executor interface {
	Run(ctx context.Context, cmd Command) (Output, error)
}

// CommandError describes a command that ran but exited non-zero.
type CommandError struct {
	Command  Command
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	if s := strings.TrimSpace(e.Stderr); s != "" {
		return fmt.Sprintf("%s: exit %d: %s", e.Command, e.ExitCode, s)
	}
	return fmt.Sprintf("%s: exit %d", e.Command, e.ExitCode)
}

// System executes commands with os/exec.
type System struct {
	Logger *slog.Logger
}

// NewSystem returns an Executor backed by real processes.
func NewSystem(logger *slog.Logger) *System {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &System{Logger: logger}
}

// Run starts cmd, waits for it and captures stdout and stderr.
func (s *System) Run(ctx context.Context, cmd Command) (Output, error) {
	s.Logger.Debug("exec", slog.String("cmd", cmd.String()), slog.String("dir", cmd.Dir))

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	if cmd.Env != nil {
		c.Env = cmd.Env
	}
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	out := Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out.ExitCode = exitErr.ExitCode()
			if out.ExitCode < 0 {
				// Killed by a signal.
				out.ExitCode = 1
			}
			s.Logger.Debug("exit", slog.String("cmd", cmd.Name), slog.Int("code", out.ExitCode))
			return out, nil
		}
		return Output{}, fmt.Errorf("%w: %s: %v", ErrSpawn, cmd, err)
	}

	s.Logger.Debug("exit", slog.String("cmd", cmd.Name), slog.Int("code", 0))
	return out, nil
}

// Text runs cmd and returns its trimmed stdout. A non-zero exit yields a
// *CommandError carrying stderr; stdout that is not UTF-8 yields ErrMalformedOutput.
func Text(ctx context.Context, e Executor, cmd Command) (string, error) {
	out, err := e.Run(ctx, cmd)
	if err != nil {
		return "", err
	}
	if !out.Success() {
		return "", &CommandError{Command: cmd, ExitCode: out.ExitCode, Stderr: string(out.Stderr)}
	}
	if !utf8.Valid(out.Stdout) {
		return "", fmt.Errorf("%s: %w", cmd, ErrMalformedOutput)
	}
	return strings.TrimSpace(string(out.Stdout)), nil
}
