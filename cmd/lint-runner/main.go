// SPDX-License-Identifier: AGPL-3.0-or-later

// Command lint-runner runs the repository's lint checks from the top of the
// git work tree and reports the aggregate through its exit status.
package main

import (
	"fmt"
	"os"

	"github.com/BitgesellOfficial/lint-runner/cmd/lint-runner/commands"
	"github.com/BitgesellOfficial/lint-runner/cmd/lint-runner/internal/clierr"
)

func main() {
	os.Exit(run())
}

// run executes the CLI and returns the process status. Lint diagnostics are
// already on stdout by the time an error reaches here.
func run() int {
	err := commands.NewRootCmd().Execute()
	if err == nil {
		return clierr.ExitOK
	}
	fmt.Fprintf(os.Stderr, "lint-runner: %v\n", err)
	return clierr.ExitCodeOf(err)
}
