package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BitgesellOfficial/lint-runner/cmd/lint-runner/internal/clierr"
)

func newReportCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show last run status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd, opts, true)
			if err != nil {
				return err
			}
			store, err := s.requireStore()
			if err != nil {
				return err
			}
			last, err := store.ReadLastRun()
			if err != nil {
				return clierr.Fatal(err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				if last == nil {
					// No run recorded yet.
					return encoder.Encode(struct{}{})
				}
				return encoder.Encode(last)
			}

			if last == nil {
				_, err := fmt.Fprintln(out, "No run state found.")
				return err
			}

			_, _ = fmt.Fprintf(out, "Run:    %s\n", last.RunID)
			_, _ = fmt.Fprintf(out, "Status: %s\n", last.Status)
			if len(last.Failed) == 0 {
				_, err := fmt.Fprintln(out, "All passed.")
				return err
			}
			_, _ = fmt.Fprintln(out, "Failed:")
			for _, id := range last.Failed {
				res, err := store.ReadCheck(id)
				if err != nil {
					return clierr.Fatal(err)
				}
				if res != nil {
					_, _ = fmt.Fprintf(out, "  - %s (exit %d)\n", id, res.ExitCode)
				} else {
					_, _ = fmt.Fprintf(out, "  - %s\n", id)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func newResetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear run state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd, opts, true)
			if err != nil {
				return err
			}
			store, err := s.requireStore()
			if err != nil {
				return err
			}
			return clierr.Fatal(store.Reset())
		},
	}
}
