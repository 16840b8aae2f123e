package checks

import (
	"github.com/BitgesellOfficial/lint-runner/internal/config"
	"github.com/BitgesellOfficial/lint-runner/internal/runner"
)

// Default returns the checks in the order they run.
func Default(cfg *config.Config) []runner.Check {
	return []runner.Check{
		NewSubtree(cfg.Subtree),
		NewForbiddenAPI(cfg.Forbidden),
		NewDoc(cfg.Doc),
		NewScripts(cfg.Scripts),
	}
}
