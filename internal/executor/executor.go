// Package executor runs a resolved sequence of recipes, one command line at a
// time, stopping at the first failure.
package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/specialistvlad/recipego/internal/ctxlog"
	"github.com/specialistvlad/recipego/internal/recipe"
)

// Options configures an Executor. Zero values inherit from the process:
// nil Env means the parent environment, empty Dir the working directory.
type Options struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Env    []string
	Dir    string

	// DryRun prints the commands to Stdout instead of running them.
	DryRun bool
	// Echo writes "[recipe] command" to Stderr before each command runs.
	Echo bool

	Tracer trace.Tracer
}

// Executor runs recipes sequentially through a Runner.
type Executor struct {
	runner Runner
	opts   Options
}

// New creates an Executor.
func New(runner Runner, opts Options) *Executor {
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}
	if opts.Tracer == nil {
		opts.Tracer = noop.NewTracerProvider().Tracer("")
	}
	return &Executor{runner: runner, opts: opts}
}

// Run executes every command of every recipe in plan, in order. The first
// command that fails aborts the run with a *CommandError; cancellation of ctx
// aborts it with an *InterruptError. Nothing after the failing command runs.
func (e *Executor) Run(ctx context.Context, plan []*recipe.Recipe) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Executor starting run.", "recipes", len(plan), "dry_run", e.opts.DryRun)

	for _, r := range plan {
		if err := e.runRecipe(ctx, r); err != nil {
			return err
		}
	}

	logger.Debug("Executor finished run.")
	return nil
}

func (e *Executor) runRecipe(ctx context.Context, r *recipe.Recipe) error {
	ctx, span := e.opts.Tracer.Start(ctx, "recipe "+string(r.Name),
		trace.WithAttributes(
			attribute.String("recipe.name", string(r.Name)),
			attribute.Int("recipe.commands", len(r.Commands)),
		))
	defer span.End()

	logger := ctxlog.FromContext(ctx).With("recipe", string(r.Name))
	logger.Info("Starting recipe.")
	start := time.Now()

	if e.opts.DryRun {
		fmt.Fprintf(e.opts.Stdout, "# %s\n", r.Name)
	}

	for i, line := range r.Commands {
		if err := e.runCommand(ctx, r, i, line); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.Debug("Recipe failed.", "error", err)
			return err
		}
	}

	logger.Info("Finished recipe.", "duration", time.Since(start))
	return nil
}

func (e *Executor) runCommand(ctx context.Context, r *recipe.Recipe, index int, line string) error {
	if err := ctx.Err(); err != nil {
		return Interruption(ctx)
	}

	if e.opts.DryRun {
		fmt.Fprintln(e.opts.Stdout, line)
		return nil
	}

	ctx, span := e.opts.Tracer.Start(ctx, "command",
		trace.WithAttributes(
			attribute.String("recipe.name", string(r.Name)),
			attribute.Int("command.index", index),
			attribute.String("command.line", line),
		))
	defer span.End()

	logger := ctxlog.FromContext(ctx).With("recipe", string(r.Name), "index", index)
	logger.Debug("Running command.", "command", line)

	if e.opts.Echo {
		fmt.Fprintf(e.opts.Stderr, "[%s] %s\n", r.Name, line)
	}

	code, err := e.runner.Run(ctx, Command{
		Recipe: r.Name,
		Index:  index,
		Line:   line,
		Stdin:  e.opts.Stdin,
		Stdout: e.opts.Stdout,
		Stderr: e.opts.Stderr,
		Env:    e.opts.Env,
		Dir:    e.opts.Dir,
	})
	span.SetAttributes(attribute.Int("command.exit_code", code))

	if ctx.Err() != nil {
		span.SetStatus(codes.Error, "interrupted")
		return Interruption(ctx)
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return &CommandError{Recipe: r.Name, Command: line, Index: index, ExitCode: -1, Err: err}
	}
	if code != 0 {
		span.SetStatus(codes.Error, fmt.Sprintf("exit status %d", code))
		return &CommandError{Recipe: r.Name, Command: line, Index: index, ExitCode: code}
	}

	logger.Debug("Command succeeded.")
	return nil
}

// Interruption builds the error for a cancelled context, preserving an
// *InterruptError set as the cancellation cause.
func Interruption(ctx context.Context) error {
	cause := context.Cause(ctx)
	var ie *InterruptError
	if errors.As(cause, &ie) {
		return ie
	}
	return &InterruptError{Err: cause}
}
