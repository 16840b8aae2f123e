package checks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BitgesellOfficial/lint-runner/internal/config"
	"github.com/BitgesellOfficial/lint-runner/internal/execx"
	"github.com/BitgesellOfficial/lint-runner/internal/runner"
)

// Scripts runs every auxiliary lint script in a directory whose name has the
// configured prefix and suffix (lint-*.py by default).
type Scripts struct {
	dir         string
	prefix      string
	suffix      string
	interpreter string
}

// NewScripts builds the auxiliary lint script sweep.
func NewScripts(cfg config.ScriptsConfig) runner.Check {
	return &Scripts{
		dir:         cfg.Dir,
		prefix:      cfg.Prefix,
		suffix:      cfg.Suffix,
		interpreter: cfg.Interpreter,
	}
}

func (s *Scripts) ID() string   { return "lint:scripts" }
func (s *Scripts) Name() string { return s.prefix + "*" + s.suffix + " scripts" }

// Discover lists matching scripts under root, sorted by file name.
func (s *Scripts) Discover(root string) ([]string, error) {
	dir := filepath.Join(root, s.dir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading lint script directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, s.prefix) || !strings.HasSuffix(name, s.suffix) {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths, nil
}

// Run executes every script; a failing script does not stop the sweep.
func (s *Scripts) Run(ctx context.Context, deps *runner.Deps) (runner.Result, error) {
	scripts, err := s.Discover(deps.Root)
	if err != nil {
		return runner.Result{}, err
	}

	failed := 0
	for _, path := range scripts {
		out, err := run(ctx, deps, execx.Command{Name: s.interpreter, Args: []string{path}})
		if err != nil {
			return runner.Result{}, err
		}
		if out.Success() {
			continue
		}
		failed++
		if msg := stderrText(out); msg != "" {
			if _, err := fmt.Fprintln(deps.Out, msg); err != nil {
				return runner.Result{}, err
			}
		}
		if _, err := fmt.Fprintf(deps.Out, "^---- failure generated from %s\n", filepath.Base(path)); err != nil {
			return runner.Result{}, err
		}
	}

	if failed > 0 {
		return runner.Fail(s.ID(), 1, ""), nil
	}
	return runner.Pass(s.ID()), nil
}
