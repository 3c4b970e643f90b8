//go:build !windows

package executor

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"syscall"

	"github.com/mattn/go-isatty"
)

// DefaultShell is the shell used when none is configured.
func DefaultShell() []string {
	return []string{"sh", "-c"}
}

// setProcessGroup starts the command in its own process group so that
// everything the shell spawns can be signalled together. Commands reading a
// terminal stay in the foreground group: a background group would be stopped
// on its first read, and the terminal already delivers ^C to the whole
// foreground group.
func setProcessGroup(cmd *exec.Cmd, stdin io.Reader) bool {
	if f, ok := stdin.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return false
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	return true
}

// interrupt sends SIGINT to the command, or to its process group.
func interrupt(p *os.Process, group bool) error {
	return signal(p, syscall.SIGINT, group)
}

// kill sends SIGKILL to the command, or to its process group.
func kill(p *os.Process, group bool) error {
	return signal(p, syscall.SIGKILL, group)
}

func signal(p *os.Process, sig syscall.Signal, group bool) error {
	if !group {
		return p.Signal(sig)
	}
	err := syscall.Kill(-p.Pid, sig)
	if errors.Is(err, syscall.ESRCH) {
		return os.ErrProcessDone
	}
	return err
}

// exitStatus maps a finished process to a shell-style status: its exit code,
// or 128+N when it was terminated by signal N.
func exitStatus(exitErr *exec.ExitError) int {
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	if code := exitErr.ExitCode(); code >= 0 {
		return code
	}
	return 1
}
