package executor

import (
	"fmt"
	"os"

	"github.com/specialistvlad/recipego/internal/recipe"
)

// CommandError reports a command line that exited non-zero or could not be
// started. ExitCode is -1 when the process never ran.
type CommandError struct {
	Recipe   recipe.Name
	Command  string
	Index    int
	ExitCode int
	Err      error
}

func (e *CommandError) Error() string {
	if e.ExitCode < 0 {
		return fmt.Sprintf("recipe %q: command %q could not be started: %v", e.Recipe, e.Command, e.Err)
	}
	return fmt.Sprintf("recipe %q: command %q exited with status %d", e.Recipe, e.Command, e.ExitCode)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Started reports whether the failing process actually ran.
func (e *CommandError) Started() bool {
	return e.ExitCode >= 0
}

// InterruptError reports that a run was aborted by an external signal or
// another cancellation of its context.
type InterruptError struct {
	// Signal is the received signal, nil for a plain context cancellation.
	Signal os.Signal
	Err    error
}

func (e *InterruptError) Error() string {
	if e.Signal != nil {
		return fmt.Sprintf("interrupted by signal %v", e.Signal)
	}
	if e.Err != nil {
		return fmt.Sprintf("interrupted: %v", e.Err)
	}
	return "interrupted"
}

func (e *InterruptError) Unwrap() error {
	return e.Err
}
