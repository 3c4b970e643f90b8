package app

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/specialistvlad/recipego/internal/config"
	"github.com/specialistvlad/recipego/internal/ctxlog"
	"github.com/specialistvlad/recipego/internal/executor"
	"github.com/specialistvlad/recipego/internal/recipe"
	"github.com/specialistvlad/recipego/internal/resolver"
	"github.com/specialistvlad/recipego/internal/tracing"
)

const shutdownTimeout = 5 * time.Second

// execute runs the requested recipe once.
func (a *App) execute(ctx context.Context, path string, reg *recipe.Registry) error {
	provider, err := tracing.NewProvider(ctx, a.tracingConfig(), a.streams.Stderr)
	if err != nil {
		return fmt.Errorf("configuring tracing: %w", err)
	}
	defer a.shutdownTracing(ctx, provider)

	return a.runOnce(ctx, path, reg, provider.Tracer())
}

// tracingConfig turns a bare trace file path into a file exporter.
func (a *App) tracingConfig() config.TracingConfig {
	cfg := a.cfg.Settings.Tracing
	if cfg.FilePath != "" && (cfg.Exporter == "" || cfg.Exporter == "none") {
		cfg.Exporter = "file"
	}
	return cfg
}

func (a *App) shutdownTracing(ctx context.Context, provider *tracing.Provider) {
	// Spans of an interrupted run are still flushed.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := provider.Shutdown(ctx); err != nil {
		ctxlog.FromContext(ctx).Warn("Failed to flush traces.", "error", err)
	}
}

// target returns the recipe to run: the requested one, else the first
// declared recipe.
func (a *App) target(reg *recipe.Registry) (recipe.Name, error) {
	if a.cfg.Recipe != "" {
		return recipe.Name(a.cfg.Recipe), nil
	}
	first := reg.First()
	if first == nil {
		return "", ErrNoRecipes
	}
	return first.Name, nil
}

// runOnce resolves and executes the target recipe under a fresh run id.
func (a *App) runOnce(ctx context.Context, path string, reg *recipe.Registry, tracer trace.Tracer) error {
	runID := ctxlog.NewRunID()
	ctx = ctxlog.WithRunID(ctx, runID)
	logger := ctxlog.FromContext(ctx)

	name, err := a.target(reg)
	if err != nil {
		return err
	}

	ctx, span := tracer.Start(ctx, "run", trace.WithAttributes(
		attribute.String("run.id", runID),
		attribute.String("recipe.requested", string(name)),
		attribute.Bool("run.dry_run", a.cfg.Settings.DryRun),
	))
	defer span.End()

	err = a.resolveAndRun(ctx, path, reg, name, tracer)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Debug("Run failed.", "error", err)
		return err
	}
	logger.Debug("Run finished.")
	return nil
}

func (a *App) resolveAndRun(ctx context.Context, path string, reg *recipe.Registry, name recipe.Name, tracer trace.Tracer) error {
	plan, err := resolver.Resolve(ctx, reg, name)
	if err != nil {
		return err
	}

	env, err := a.environment(ctx, path)
	if err != nil {
		return err
	}

	s := a.cfg.Settings
	exec := executor.New(a.runner, executor.Options{
		Stdin:  a.streams.Stdin,
		Stdout: a.streams.Stdout,
		Stderr: a.streams.Stderr,
		Env:    env,
		Dir:    a.cfg.WorkDir,
		DryRun: s.DryRun,
		Echo:   s.Echo,
		Tracer: tracer,
	})

	ctxlog.FromContext(ctx).Info("Running recipe.", "recipe", string(name), "plan", resolver.Names(plan))
	return exec.Run(ctx, plan)
}
