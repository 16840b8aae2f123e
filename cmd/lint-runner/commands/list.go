package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BitgesellOfficial/lint-runner/internal/checks"
)

type checkListItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered checks in execution order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd, opts, false)
			if err != nil {
				return err
			}

			registered := checks.Default(s.cfg)
			list := make([]checkListItem, 0, len(registered))
			for _, c := range registered {
				list = append(list, checkListItem{ID: c.ID(), Name: c.Name()})
			}

			out := cmd.OutOrStdout()
			if asJSON {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(map[string]any{"checks": list})
			}

			for _, item := range list {
				if _, err := fmt.Fprintf(out, "%-20s %s\n", item.ID, item.Name); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}
