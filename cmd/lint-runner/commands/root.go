// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands contains the Cobra commands for the lint-runner CLI.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X ...commands.Version=...".
var Version = "0.0.0-dev"

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configFile string
	stateDir   string
	verbose    bool
}

// NewRootCmd constructs the lint-runner root Cobra command. Invoked without a
// subcommand it runs every registered check.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "lint-runner",
		Short: "Run the repository's lint checks",
		Long: `lint-runner runs the repository's lint checks from the top of the git work tree:
subtree purity, forbidden API usage, option documentation and the lint-*.py scripts.

It exits 0 when every check passes, 1 when any check fails and 2 when the
environment is broken (git missing, a script cannot be started).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChecks(cmd, opts, nil)
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default: <repo root>/.lint-runner.yaml)")
	cmd.PersistentFlags().StringVar(&opts.stateDir, "state-dir", "", "directory to store run state (default: none)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging on stderr")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of lint-runner",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "lint-runner version %s\n", Version)
		},
	})
	cmd.AddCommand(newRunCmd(opts))
	cmd.AddCommand(newResumeCmd(opts))
	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newReportCmd(opts))
	cmd.AddCommand(newResetCmd(opts))
	cmd.AddCommand(newConfigCmd(opts))

	return cmd
}
