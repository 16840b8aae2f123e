package runner

import (
	"context"
	"io"
	"log/slog"

	"github.com/BitgesellOfficial/lint-runner/internal/execx"
)

// Deps contains dependencies injected into checks.
type Deps struct {
	// Root is the repository root; every check runs with it as working directory.
	Root string
	// Exec launches external commands.
	Exec execx.Executor
	// Out receives diagnostics meant for the user (stdout).
	Out io.Writer
	// Err receives what a passing command wrote to stderr; a failing
	// command's stderr becomes the Result message instead.
	Err    io.Writer
	Logger *slog.Logger
}

// Check is one independently invocable lint rule.
type Check interface {
	// ID returns the stable identifier (e.g. "lint:subtree").
	ID() string

	// Name returns the human label used in failure markers (e.g. "subtree check").
	Name() string

	// Run executes the check. A lint violation is reported through the Result;
	// the error is reserved for environment problems that must abort the run.
	Run(ctx context.Context, deps *Deps) (Result, error)
}
