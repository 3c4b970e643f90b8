package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.opentelemetry.io/otel/trace"

	"github.com/specialistvlad/recipego/internal/ctxlog"
	"github.com/specialistvlad/recipego/internal/executor"
	"github.com/specialistvlad/recipego/internal/recipe"
	"github.com/specialistvlad/recipego/internal/tracing"
	"github.com/specialistvlad/recipego/internal/watcher"
)

// watch runs the recipe, then re-loads the recipe file and runs again after
// every change under the recipe file's directory. Changes made while a run is
// in progress are ignored. Failing runs are reported and watching continues;
// only cancellation of ctx ends it.
func (a *App) watch(ctx context.Context, path string, reg *recipe.Registry) error {
	logger := ctxlog.FromContext(ctx)

	provider, err := tracing.NewProvider(ctx, a.tracingConfig(), a.streams.Stderr)
	if err != nil {
		return fmt.Errorf("configuring tracing: %w", err)
	}
	defer a.shutdownTracing(ctx, provider)
	tracer := provider.Tracer()

	root := filepath.Dir(path)
	w, err := watcher.New(watcher.Config{Root: root, DebounceDur: a.cfg.Settings.WatchDebounce})
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	changes, err := w.Start(ctx)
	if err != nil {
		return err
	}
	logger.Info("Watching for changes.", "root", root)

	if err := a.runWatched(ctx, w, path, reg, tracer); err != nil {
		if isInterrupt(err) {
			return err
		}
		a.report(ctx, err)
	}

	for {
		select {
		case <-ctx.Done():
			return executor.Interruption(ctx)
		case <-changes:
			logger.Info("Change detected, running again.")

			reloaded, err := a.load(ctx, path)
			if err != nil {
				a.report(ctx, err)
				continue
			}
			reg = reloaded

			if err := a.runWatched(ctx, w, path, reg, tracer); err != nil {
				if isInterrupt(err) {
					return err
				}
				a.report(ctx, err)
			}
		}
	}
}

// runWatched runs once with the watcher paused.
func (a *App) runWatched(ctx context.Context, w *watcher.Watcher, path string, reg *recipe.Registry, tracer trace.Tracer) error {
	w.Pause()
	defer w.Resume()
	return a.runOnce(ctx, path, reg, tracer)
}

func isInterrupt(err error) bool {
	var ie *executor.InterruptError
	return errors.As(err, &ie)
}

func (a *App) report(ctx context.Context, err error) {
	if a.cfg.Report != nil {
		a.cfg.Report(err)
		return
	}
	ctxlog.FromContext(ctx).Error("Run failed.", "error", err)
}
