package commands

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/BitgesellOfficial/lint-runner/cmd/lint-runner/internal/clierr"
	"github.com/BitgesellOfficial/lint-runner/internal/checks"
	"github.com/BitgesellOfficial/lint-runner/internal/config"
	"github.com/BitgesellOfficial/lint-runner/internal/execx"
	"github.com/BitgesellOfficial/lint-runner/internal/logging"
	"github.com/BitgesellOfficial/lint-runner/internal/runner"
)

// session is everything a command needs once the repository root is known.
type session struct {
	root   string
	cfg    *config.Config
	logger *slog.Logger
	exec   *execx.System
}

// newSession resolves the repository root and loads the configuration.
// With requireRoot unset, a missing repository falls back to the built-in
// configuration instead of aborting.
func newSession(cmd *cobra.Command, opts *rootOptions, requireRoot bool) (*session, error) {
	logger := logging.New(cmd.ErrOrStderr(), opts.verbose)
	sys := execx.NewSystem(logger)
	ctx := cmd.Context()

	wd, err := os.Getwd()
	if err != nil {
		return nil, clierr.Fatal(err)
	}

	root, err := runner.ResolveRoot(ctx, sys, wd)
	if err != nil {
		if requireRoot {
			return nil, clierr.Fatal(err)
		}
		logger.Warn("not inside a git work tree; using built-in configuration", slog.Any("error", err))
		root = ""
	}

	cfg, err := config.Load(root, opts.configFile, cmd.Flags())
	if err != nil {
		return nil, clierr.Wrap(clierr.ExitFatal, "loading configuration", err)
	}
	if cfg.Verbose && !opts.verbose {
		logger = logging.New(cmd.ErrOrStderr(), true)
		sys.Logger = logger
	}
	if cfg.File != "" {
		logger.Debug("using config file", slog.String("path", cfg.File))
	}
	logger.Debug("repository root", slog.String("root", root))

	cmd.SetContext(logging.WithLogger(ctx, logger))
	return &session{root: root, cfg: cfg, logger: logger, exec: sys}, nil
}

// store returns the configured state store, or nil when state is disabled.
func (s *session) store() *runner.StateStore {
	dir := s.cfg.ResolveStateDir(s.root)
	if dir == "" {
		return nil
	}
	return runner.NewStateStore(dir)
}

func (s *session) requireStore() (*runner.StateStore, error) {
	store := s.store()
	if store == nil {
		return nil, clierr.New(clierr.ExitUsage, "no state directory configured; pass --state-dir or set state_dir")
	}
	return store, nil
}

// runner builds the runner for the registered checks. Checks log through the
// logger newSession stored on the command context.
func (s *session) runner(out, errOut io.Writer) *runner.Runner {
	deps := &runner.Deps{
		Root: s.root,
		Exec: s.exec,
		Out:  out,
		Err:  errOut,
	}
	var opts []runner.Option
	if store := s.store(); store != nil {
		opts = append(opts, runner.WithStateStore(store))
	}
	return runner.New(checks.Default(s.cfg), deps, opts...)
}

// runError converts a runner error into an exit-coded error.
func runError(err error) error {
	if errors.Is(err, runner.ErrUnknownCheck) {
		return clierr.Wrap(clierr.ExitUsage, "run failed", err)
	}
	return clierr.Fatal(err)
}
