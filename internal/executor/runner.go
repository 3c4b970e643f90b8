package executor

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"slices"
	"sync"
	"time"

	"github.com/specialistvlad/recipego/internal/recipe"
)

// Command is one command line ready to run.
type Command struct {
	Recipe recipe.Name
	Index  int
	Line   string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Env is the full environment; nil inherits the runner's environment.
	Env []string
	// Dir is the working directory; empty inherits the runner's.
	Dir string
}

// Runner runs a single command line to completion and returns its exit
// status. A non-nil error means the process could not be started; a process
// that ran and failed reports a non-zero status with a nil error.
type Runner interface {
	Run(ctx context.Context, cmd Command) (int, error)
}

// DefaultKillGrace is how long an interrupted command may take to exit
// before it is killed.
const DefaultKillGrace = 5 * time.Second

// ShellRunner runs command lines through a shell, e.g. `sh -c <line>`.
type ShellRunner struct {
	// Shell is the program and leading arguments; the command line is
	// appended as the final argument.
	Shell     []string
	KillGrace time.Duration
}

// NewShellRunner returns a runner using shell, or the platform default
// shell when shell is empty.
func NewShellRunner(shell []string, killGrace time.Duration) *ShellRunner {
	if len(shell) == 0 {
		shell = DefaultShell()
	}
	if killGrace <= 0 {
		killGrace = DefaultKillGrace
	}
	return &ShellRunner{Shell: slices.Clone(shell), KillGrace: killGrace}
}

// Run implements Runner. Output is streamed straight to the command's
// writers. When ctx is cancelled the command (its process group, where one is
// used) is interrupted and, after KillGrace, killed. Anything left of the group
// once the shell has exited is killed right away.
func (s *ShellRunner) Run(ctx context.Context, c Command) (int, error) {
	args := append(slices.Clone(s.Shell[1:]), c.Line)
	cmd := exec.CommandContext(ctx, s.Shell[0], args...)
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	cmd.Env = c.Env
	cmd.Dir = c.Dir
	group := setProcessGroup(cmd, c.Stdin)

	var (
		mu        sync.Mutex
		killTimer *time.Timer
	)
	cmd.Cancel = func() error {
		mu.Lock()
		defer mu.Unlock()
		p := cmd.Process
		killTimer = time.AfterFunc(s.KillGrace, func() { _ = kill(p, group) })
		return interrupt(p, group)
	}
	// Backstop for output pipes held open by a process outside the group.
	cmd.WaitDelay = 2 * s.KillGrace

	err := cmd.Run()

	mu.Lock()
	if killTimer != nil {
		killTimer.Stop()
		_ = kill(cmd.Process, group)
	}
	mu.Unlock()

	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitStatus(exitErr), nil
	}
	if cmd.ProcessState != nil {
		// The process ran but Wait reported an I/O or cancellation error.
		return exitStatus(&exec.ExitError{ProcessState: cmd.ProcessState}), nil
	}
	return -1, err
}
