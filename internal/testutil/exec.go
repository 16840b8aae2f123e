package testutil

import (
	"context"
	"sync"

	"github.com/BitgesellOfficial/lint-runner/internal/execx"
)

// FakeExecutor records every command and answers with Respond, or with a
// successful empty Output when Respond is nil.
type FakeExecutor struct {
	Respond func(cmd execx.Command) (execx.Output, error)

	mu    sync.Mutex
	calls []execx.Command
}

// Run implements execx.Executor.
func (f *FakeExecutor) Run(_ context.Context, cmd execx.Command) (execx.Output, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	f.mu.Unlock()

	if f.Respond == nil {
		return execx.Output{}, nil
	}
	return f.Respond(cmd)
}

// Calls returns the commands seen so far, in order.
func (f *FakeExecutor) Calls() []execx.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]execx.Command(nil), f.calls...)
}
