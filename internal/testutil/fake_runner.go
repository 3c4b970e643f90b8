package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/specialistvlad/recipego/internal/executor"
)

// FakeRunner is an executor.Runner that records command lines instead of
// spawning processes.
type FakeRunner struct {
	mu    sync.Mutex
	calls []executor.Command

	// ExitCodes maps a command line to the status it reports (default 0).
	ExitCodes map[string]int
	// Errors maps a command line to a start failure.
	Errors map[string]error
	// Echo writes each command line to the command's Stdout.
	Echo bool
	// OnRun, when set, is called before the result is computed.
	OnRun func(ctx context.Context, cmd executor.Command)
}

// NewFakeRunner returns a runner where every command succeeds.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		ExitCodes: make(map[string]int),
		Errors:    make(map[string]error),
	}
}

// Run implements executor.Runner.
func (f *FakeRunner) Run(ctx context.Context, cmd executor.Command) (int, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	f.mu.Unlock()

	if f.OnRun != nil {
		f.OnRun(ctx, cmd)
	}
	if err, ok := f.Errors[cmd.Line]; ok {
		return -1, err
	}
	if f.Echo && cmd.Stdout != nil {
		fmt.Fprintln(cmd.Stdout, cmd.Line)
	}
	return f.ExitCodes[cmd.Line], nil
}

// Lines returns the command lines run so far, in order.
func (f *FakeRunner) Lines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.Line
	}
	return out
}

// Calls returns a copy of the recorded commands.
func (f *FakeRunner) Calls() []executor.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]executor.Command, len(f.calls))
	copy(out, f.calls)
	return out
}
