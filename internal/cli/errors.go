package cli

import (
	"errors"
	"fmt"
	"strings"
	"syscall"

	"github.com/specialistvlad/recipego/internal/app"
	"github.com/specialistvlad/recipego/internal/config"
	"github.com/specialistvlad/recipego/internal/executor"
	"github.com/specialistvlad/recipego/internal/fsutil"
	"github.com/specialistvlad/recipego/internal/recipe"
)

// Exit statuses reserved by the runner. Any other non-zero status is the
// status of the failing command.
const (
	ExitUsage    = 2
	ExitInternal = 125
	// ExitSignalBase is added to the signal number of an interrupted run.
	ExitSignalBase = 128
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: ExitUsage, Message: fmt.Sprintf(format, args...)}
}

// ExitCode maps an error returned by Execute to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var interrupt *executor.InterruptError
	if errors.As(err, &interrupt) {
		if sig, ok := interrupt.Signal.(syscall.Signal); ok {
			return ExitSignalBase + int(sig)
		}
		return ExitSignalBase + int(syscall.SIGINT)
	}

	var cmdErr *executor.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Started() {
		return cmdErr.ExitCode
	}

	return ExitInternal
}

// Diagnostic renders err as the single "recipego: <kind>: <detail>" line
// written to stderr.
func Diagnostic(err error) string {
	kind, detail := classify(err)
	return fmt.Sprintf("%s: %s: %s", commandName, kind, detail)
}

func classify(err error) (kind, detail string) {
	var (
		exitErr   *ExitError
		parseErr  *recipe.ParseError
		unknown   *recipe.UnknownRecipeError
		cycle     *recipe.CycleError
		cmdErr    *executor.CommandError
		interrupt *executor.InterruptError
		notFound  *fsutil.NotFoundError
	)

	switch {
	case errors.As(err, &exitErr):
		return "usage error", exitErr.Message
	case errors.As(err, &interrupt):
		return "interrupted", interrupt.Error()
	case errors.As(err, &cmdErr) && cmdErr.Started():
		return "command failed", cmdErr.Error()
	case errors.As(err, &cmdErr):
		return "spawn failed", cmdErr.Error()
	case errors.As(err, &cycle):
		names := make([]string, len(cycle.Cycle))
		for i, n := range cycle.Cycle {
			names[i] = string(n)
		}
		return "dependency cycle", strings.Join(names, " -> ")
	case errors.As(err, &unknown):
		return "unknown recipe", unknown.Error()
	case errors.Is(err, app.ErrNoRecipes):
		return "unknown recipe", err.Error()
	case errors.As(err, &parseErr):
		return "parse error", parseErr.Error()
	case errors.As(err, &notFound):
		return "recipe file not found", notFound.Error()
	case errors.Is(err, config.ErrInvalid):
		return "configuration error", strings.TrimPrefix(err.Error(), config.ErrInvalid.Error()+": ")
	default:
		return "error", err.Error()
	}
}
