package checks

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/BitgesellOfficial/lint-runner/internal/config"
	"github.com/BitgesellOfficial/lint-runner/internal/git"
	"github.com/BitgesellOfficial/lint-runner/internal/runner"
)

// ForbiddenAPI fails when a banned identifier appears in tracked sources
// outside the allow-listed files.
type ForbiddenAPI struct {
	pattern string
	paths   []string
	exclude []string
	message string
}

// NewForbiddenAPI builds the forbidden-API usage check.
func NewForbiddenAPI(cfg config.ForbiddenConfig) runner.Check {
	return &ForbiddenAPI{
		pattern: cfg.Pattern,
		paths:   cfg.Paths,
		exclude: cfg.Exclude,
		message: cfg.Message,
	}
}

func (f *ForbiddenAPI) ID() string   { return "lint:forbidden-api" }
func (f *ForbiddenAPI) Name() string { return f.pattern + " check" }

// pathspecs limits the search to paths and drops the allow-listed files.
func (f *ForbiddenAPI) pathspecs() []string {
	specs := append([]string(nil), f.paths...)
	for _, ex := range f.exclude {
		specs = append(specs, ":(exclude)"+ex)
	}
	return specs
}

func (f *ForbiddenAPI) Run(ctx context.Context, deps *runner.Deps) (runner.Result, error) {
	res, err := git.New(deps.Root, deps.Exec).Grep(ctx, f.pattern, f.pathspecs()...)
	if err != nil {
		// A git that cannot search is a broken environment, never a finding.
		return runner.Result{}, err
	}
	if !res.Found {
		return runner.Pass(f.ID()), nil
	}

	deps.Logger.Debug("forbidden usage", slog.String("pattern", f.pattern), slog.Int("matches", len(res.Matches)))
	// Matches go first so the message's "^^^" points at them.
	if len(res.Matches) > 0 {
		if _, err := fmt.Fprintln(deps.Out, strings.Join(res.Matches, "\n")); err != nil {
			return runner.Result{}, err
		}
	}
	return runner.Fail(f.ID(), 1, f.message), nil
}
