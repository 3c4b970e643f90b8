//go:build windows

package executor

import (
	"io"
	"os"
	"os/exec"
)

// DefaultShell is the shell used when none is configured.
func DefaultShell() []string {
	return []string{"cmd", "/C"}
}

// setProcessGroup is a no-op: the command is killed directly.
func setProcessGroup(*exec.Cmd, io.Reader) bool {
	return false
}

// interrupt kills the command; console control events cannot be targeted at
// a single child process.
func interrupt(p *os.Process, _ bool) error {
	return p.Kill()
}

func kill(p *os.Process, _ bool) error {
	return p.Kill()
}

func exitStatus(exitErr *exec.ExitError) int {
	if code := exitErr.ExitCode(); code >= 0 {
		return code
	}
	return 1
}
