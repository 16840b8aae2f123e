package commands

import (
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/BitgesellOfficial/lint-runner/cmd/lint-runner/internal/clierr"
	"github.com/BitgesellOfficial/lint-runner/internal/runner"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run [check-id...]",
		Short: "Run all checks, or only the given ones",
		Long: `Run the registered checks in order. With check IDs (see "lint-runner list"),
only those checks run, in the order given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChecks(cmd, opts, args)
		},
	}
}

func newResumeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Re-run only the checks that failed last time",
		Long:  "Re-run the checks recorded as failed in the state directory (requires --state-dir or state_dir).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd, opts, true)
			if err != nil {
				return err
			}
			if _, err := s.requireStore(); err != nil {
				return err
			}
			summary, err := s.runner(cmd.OutOrStdout(), cmd.ErrOrStderr()).Resume(cmd.Context())
			return finish(s, summary, err)
		},
	}
}

func runChecks(cmd *cobra.Command, opts *rootOptions, ids []string) error {
	s, err := newSession(cmd, opts, true)
	if err != nil {
		return err
	}

	r := s.runner(cmd.OutOrStdout(), cmd.ErrOrStderr())
	var summary *runner.Summary
	if len(ids) == 0 {
		summary, err = r.RunAll(cmd.Context())
	} else {
		summary, err = r.RunList(cmd.Context(), ids)
	}
	return finish(s, summary, err)
}

// finish maps a run outcome to the process exit status.
func finish(s *session, summary *runner.Summary, err error) error {
	if err != nil {
		return runError(err)
	}
	s.logger.Debug("run finished",
		slog.String("run", summary.RunID),
		slog.Int("checks", len(summary.Checks)),
		slog.Int("failed", len(summary.Failed)))

	if !summary.OK() {
		return clierr.Newf(clierr.ExitLintFailure, "lint failed: %s", strings.Join(summary.Failed, ", "))
	}
	return nil
}
