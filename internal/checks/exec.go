// Package checks holds the lint checks lint-runner executes and the default
// ordered registry.
package checks

import (
	"context"
	"strings"

	"github.com/BitgesellOfficial/lint-runner/internal/execx"
	"github.com/BitgesellOfficial/lint-runner/internal/runner"
)

// ExecCheck runs one external command; its exit status is the verdict.
type ExecCheck struct {
	id   string
	name string
	cmd  execx.Command
}

func (c *ExecCheck) ID() string   { return c.id }
func (c *ExecCheck) Name() string { return c.name }

func (c *ExecCheck) Run(ctx context.Context, deps *runner.Deps) (runner.Result, error) {
	out, err := run(ctx, deps, c.cmd)
	if err != nil {
		return runner.Result{}, err
	}
	if !out.Success() {
		return runner.Fail(c.id, out.ExitCode, stderrText(out)), nil
	}
	return runner.Pass(c.id), nil
}

// run executes cmd from the repository root and forwards its stdout to the
// user, the way an inherited stdout would. Stderr of a passing command goes to
// deps.Err; callers turn a failing command's stderr into the message.
func run(ctx context.Context, deps *runner.Deps, cmd execx.Command) (execx.Output, error) {
	cmd.Dir = deps.Root
	out, err := deps.Exec.Run(ctx, cmd)
	if err != nil {
		return execx.Output{}, err
	}
	if len(out.Stdout) > 0 {
		if _, err := deps.Out.Write(out.Stdout); err != nil {
			return execx.Output{}, err
		}
	}
	if out.Success() && len(out.Stderr) > 0 {
		if _, err := deps.Err.Write(out.Stderr); err != nil {
			return execx.Output{}, err
		}
	}
	return out, nil
}

func stderrText(out execx.Output) string {
	return strings.TrimRight(string(out.Stderr), "\n")
}
