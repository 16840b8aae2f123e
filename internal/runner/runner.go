package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/BitgesellOfficial/lint-runner/internal/execx"
	"github.com/BitgesellOfficial/lint-runner/internal/git"
	"github.com/BitgesellOfficial/lint-runner/internal/logging"
)

// ErrFatal marks environment failures that abort a run. They are never
// reported as lint failures.
var ErrFatal = errors.New("fatal")

// ErrUnknownCheck is returned by RunList for an ID that is not registered.
var ErrUnknownCheck = errors.New("check not found")

// ResolveRoot asks git for the top-level directory of the work tree containing dir.
func ResolveRoot(ctx context.Context, e execx.Executor, dir string) (string, error) {
	root, err := git.New(dir, e).TopLevel(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: resolving repository root: %w", ErrFatal, err)
	}
	return root, nil
}

// Runner manages the execution of checks.
type Runner struct {
	checks []Check
	deps   *Deps
	store  *StateStore
	chdir  func(string) error
}

// Option configures a Runner.
type Option func(*Runner)

// WithStateStore persists every run to store.
func WithStateStore(store *StateStore) Option {
	return func(r *Runner) { r.store = store }
}

// New creates a runner for the given ordered checks.
func New(checks []Check, deps *Deps, opts ...Option) *Runner {
	if deps.Out == nil {
		deps.Out = io.Discard
	}
	if deps.Err == nil {
		deps.Err = io.Discard
	}
	r := &Runner{
		checks: checks,
		deps:   deps,
		chdir:  os.Chdir,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Checks returns the registered checks in execution order.
func (r *Runner) Checks() []Check { return r.checks }

// RunCheck changes to the repository root and runs c. Only fatal problems
// are returned as errors.
func (r *Runner) RunCheck(ctx context.Context, c Check) (Result, error) {
	r.useContextLogger(ctx)
	if err := r.chdir(r.deps.Root); err != nil {
		return Result{}, fmt.Errorf("%w: chdir to %s: %w", ErrFatal, r.deps.Root, err)
	}

	res, err := c.Run(ctx, r.deps)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %w", ErrFatal, c.Name(), err)
	}
	res.Check = c.ID()
	return res, nil
}

// RunAll executes all checks in order.
// It continues after lint failures and accumulates them; a fatal error stops
// the run immediately.
func (r *Runner) RunAll(ctx context.Context) (*Summary, error) {
	return r.executeSequence(ctx, r.checks)
}

// RunList executes a specific list of check IDs, in the order given. A
// repeated ID runs once, at its first position.
func (r *Runner) RunList(ctx context.Context, ids []string) (*Summary, error) {
	var toRun []Check
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		c := r.findCheck(id)
		if c == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCheck, id)
		}
		toRun = append(toRun, c)
	}
	return r.executeSequence(ctx, toRun)
}

// Resume re-runs only the checks that failed in the last persisted run.
// It returns an empty summary when nothing failed.
func (r *Runner) Resume(ctx context.Context) (*Summary, error) {
	if r.store == nil {
		return nil, errors.New("resume needs a state directory")
	}
	failed, err := r.store.LoadFailedChecks()
	if err != nil {
		return nil, fmt.Errorf("loading failed checks: %w", err)
	}
	if len(failed) == 0 {
		return &Summary{Root: r.deps.Root}, nil
	}

	var toRun []Check
	for _, id := range failed {
		if c := r.findCheck(id); c != nil {
			toRun = append(toRun, c)
		}
	}
	return r.executeSequence(ctx, toRun)
}

// useContextLogger falls back to the logger carried by ctx when Deps has none.
func (r *Runner) useContextLogger(ctx context.Context) {
	if r.deps.Logger == nil {
		r.deps.Logger = logging.FromContext(ctx)
	}
}

func (r *Runner) findCheck(id string) Check {
	for _, c := range r.checks {
		if c.ID() == id {
			return c
		}
	}
	return nil
}

func (r *Runner) executeSequence(ctx context.Context, checks []Check) (*Summary, error) {
	summary := &Summary{
		RunID: uuid.NewString(),
		Root:  r.deps.Root,
	}
	r.useContextLogger(ctx)
	log := r.deps.Logger.With(slog.String("run", summary.RunID))

	for _, c := range checks {
		id := c.ID()
		summary.Checks = append(summary.Checks, id)
		log.Debug("running check", slog.String("check", id))

		res, err := r.RunCheck(ctx, c)
		if err != nil {
			log.Debug("run aborted", slog.String("check", id), slog.Any("error", err))
			return summary, err
		}
		summary.Results = append(summary.Results, res)

		if r.store != nil {
			if err := r.store.WriteCheckResult(res); err != nil {
				return summary, fmt.Errorf("writing result for %s: %w", id, err)
			}
		}

		if res.Failed() {
			summary.Failed = append(summary.Failed, id)
			log.Info("check failed", slog.String("check", id), slog.Int("exit_code", res.ExitCode))
			if _, err := fmt.Fprintf(r.deps.Out, "%s\n^---- Failure generated from %s!\n", res.Message, c.Name()); err != nil {
				return summary, fmt.Errorf("writing diagnostics: %w", err)
			}
			continue
		}
		log.Debug("check passed", slog.String("check", id))
	}

	if r.store != nil {
		if err := r.store.WriteLastRun(summary.lastRun()); err != nil {
			return summary, fmt.Errorf("writing last run: %w", err)
		}
	}
	return summary, nil
}
