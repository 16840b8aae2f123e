// Package git wraps the handful of git commands lint-runner needs.
package git

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/BitgesellOfficial/lint-runner/internal/execx"
)

// ErrNotRepo is returned when the directory is not inside a git work tree.
var ErrNotRepo = errors.New("not a git repository")

// Error wraps a git command that exited non-zero.
type Error struct {
	Args     []string // git subcommand and arguments
	ExitCode int
	Stderr   string
}

func (e *Error) Error() string {
	if s := strings.TrimSpace(e.Stderr); s != "" {
		return "git " + strings.Join(e.Args, " ") + ": " + s
	}
	return "git " + strings.Join(e.Args, " ") + ": exit status " + strconv.Itoa(e.ExitCode)
}

// Is lets errors.Is(err, ErrNotRepo) match git's own complaint.
func (e *Error) Is(target error) bool {
	return target == ErrNotRepo && strings.Contains(e.Stderr, "not a git repository")
}

// Git runs git commands in a fixed directory.
type Git struct {
	Dir  string
	exec execx.Executor
}

// New creates a Git for dir using the given executor.
func New(dir string, e execx.Executor) *Git {
	return &Git{Dir: dir, exec: e}
}

func (g *Git) command(args ...string) execx.Command {
	return execx.Command{Name: "git", Args: args, Dir: g.Dir, Env: sanitizedEnv()}
}

// TopLevel returns the absolute path of the top-level directory of the work tree.
func (g *Git) TopLevel(ctx context.Context) (string, error) {
	out, err := execx.Text(ctx, g.exec, g.command("rev-parse", "--show-toplevel"))
	if err != nil {
		var cmdErr *execx.CommandError
		if errors.As(err, &cmdErr) {
			return "", &Error{Args: cmdErr.Command.Args, ExitCode: cmdErr.ExitCode, Stderr: cmdErr.Stderr}
		}
		return "", err
	}
	if out == "" {
		return "", &Error{Args: []string{"rev-parse", "--show-toplevel"}, Stderr: "empty output"}
	}
	return out, nil
}

// GrepResult is the outcome of a git grep over tracked files.
type GrepResult struct {
	Found bool
	// Matches holds the "path:line" output of git grep.
	Matches []string
}

// Grep searches tracked files for pattern, limited by pathspecs (which may use
// magic such as ":(exclude)path"). Exit status 1 means no match; any other
// non-zero status is returned as *Error.
func (g *Git) Grep(ctx context.Context, pattern string, pathspecs ...string) (GrepResult, error) {
	args := []string{"grep", "--no-color", "-e", pattern}
	if len(pathspecs) > 0 {
		args = append(args, "--")
		args = append(args, pathspecs...)
	}

	out, err := g.exec.Run(ctx, g.command(args...))
	if err != nil {
		return GrepResult{}, err
	}
	switch out.ExitCode {
	case 0:
		text := strings.TrimRight(string(out.Stdout), "\n")
		var matches []string
		if text != "" {
			matches = strings.Split(text, "\n")
		}
		return GrepResult{Found: true, Matches: matches}, nil
	case 1:
		return GrepResult{}, nil
	default:
		return GrepResult{}, &Error{Args: args, ExitCode: out.ExitCode, Stderr: string(out.Stderr)}
	}
}

// sanitizedEnv drops variables git sets for hooks. When lint-runner is started
// from a hook they would point git at the outer repository instead of Dir.
func sanitizedEnv() []string {
	var env []string
	for _, e := range os.Environ() {
		key, _, _ := strings.Cut(e, "=")
		switch strings.ToUpper(key) {
		case "GIT_DIR", "GIT_INDEX_FILE", "GIT_WORK_TREE",
			"GIT_OBJECT_DIRECTORY", "GIT_ALTERNATE_OBJECT_DIRECTORIES":
			continue
		}
		env = append(env, e)
	}
	return env
}
