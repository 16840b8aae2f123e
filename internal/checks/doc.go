package checks

import (
	"github.com/BitgesellOfficial/lint-runner/internal/config"
	"github.com/BitgesellOfficial/lint-runner/internal/execx"
	"github.com/BitgesellOfficial/lint-runner/internal/runner"
)

// NewDoc checks that every command-line option is documented in -help output.
// The script does the work; pass/fail mirrors its exit status.
func NewDoc(cfg config.DocConfig) runner.Check {
	return &ExecCheck{
		id:   "lint:doc",
		name: "-help=1 documentation check",
		cmd:  execx.Command{Name: cfg.Script},
	}
}
