package checks

import (
	"context"
	"log/slog"
	"strings"

	"github.com/BitgesellOfficial/lint-runner/internal/config"
	"github.com/BitgesellOfficial/lint-runner/internal/execx"
	"github.com/BitgesellOfficial/lint-runner/internal/runner"
)

// Subtree verifies that vendored directories are unmodified git subtrees.
// This only checks that the trees are pure subtrees; it does not fetch the
// remotes to compare against upstream.
type Subtree struct {
	script string
	dirs   []string
}

// NewSubtree builds the subtree purity check.
func NewSubtree(cfg config.SubtreeConfig) runner.Check {
	return &Subtree{script: cfg.Script, dirs: cfg.Dirs}
}

func (s *Subtree) ID() string   { return "lint:subtree" }
func (s *Subtree) Name() string { return "subtree check" }

// Run invokes the script once per directory. Every directory is checked even
// after a failure so one run reports all of them.
func (s *Subtree) Run(ctx context.Context, deps *runner.Deps) (runner.Result, error) {
	var notes []string
	exitCode := 0

	for _, dir := range s.dirs {
		out, err := run(ctx, deps, execx.Command{Name: s.script, Args: []string{dir}})
		if err != nil {
			return runner.Result{}, err
		}
		if out.Success() {
			continue
		}
		deps.Logger.Debug("subtree impure", slog.String("dir", dir), slog.Int("exit_code", out.ExitCode))
		if exitCode == 0 {
			exitCode = out.ExitCode
		}
		if msg := stderrText(out); msg != "" {
			notes = append(notes, msg)
		}
	}

	if exitCode != 0 {
		return runner.Fail(s.ID(), exitCode, strings.Join(notes, "\n")), nil
	}
	return runner.Pass(s.ID()), nil
}
