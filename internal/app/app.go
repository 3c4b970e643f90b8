package app

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/recipego/internal/config"
	"github.com/specialistvlad/recipego/internal/ctxlog"
	"github.com/specialistvlad/recipego/internal/executor"
	"github.com/specialistvlad/recipego/internal/hcl"
	"github.com/specialistvlad/recipego/internal/recipefile"
	"github.com/specialistvlad/recipego/internal/render"
)

// Streams are the standard streams handed to commands. Logs and diagnostics
// go to Stderr; Stdout carries only command output, listings and dumps.
type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// App encapsulates the application's dependencies and configuration for one
// invocation.
type App struct {
	streams Streams
	logger  *slog.Logger
	cfg     *Config
	runner  executor.Runner
	loaders map[string]config.Loader
}

// NewApp creates an App. A nil runner selects the shell runner configured by
// the settings.
func NewApp(streams Streams, cfg *Config, runner executor.Runner) *App {
	if streams.Stdout == nil {
		streams.Stdout = io.Discard
	}
	if streams.Stderr == nil {
		streams.Stderr = io.Discard
	}

	logger := newLogger(cfg.Settings.LogLevel, cfg.Settings.LogFormat, streams.Stderr)
	logger.Debug("Logger configured successfully.")

	if runner == nil {
		runner = executor.NewShellRunner(cfg.Settings.ShellArgs(), cfg.Settings.KillGrace)
	}

	return &App{
		streams: streams,
		logger:  logger,
		cfg:     cfg,
		runner:  runner,
		loaders: map[string]config.Loader{
			"":     recipefile.NewLoader(),
			".hcl": hcl.NewLoader(),
		},
	}
}

// loaderFor picks the recipe file format by extension.
func (a *App) loaderFor(path string) config.Loader {
	ext := strings.ToLower(filepath.Ext(path))
	if l, ok := a.loaders[ext]; ok {
		return l
	}
	return a.loaders[""]
}

// Run executes the invocation described by the App's Config.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "mode", a.cfg.Mode.String(), "recipe", a.cfg.Recipe)

	path, err := a.recipeFilePath(ctx)
	if err != nil {
		return err
	}

	reg, err := a.load(ctx, path)
	if err != nil {
		return err
	}

	switch a.cfg.Mode {
	case ModeList:
		return render.List(a.streams.Stdout, reg)
	case ModeDump:
		return render.Dump(a.streams.Stdout, reg, a.cfg.Settings.DumpFormat)
	}

	if a.cfg.Recipe == "" && a.cfg.Settings.DefaultAction == "list" {
		return render.List(a.streams.Stdout, reg)
	}

	if a.cfg.Settings.Watch {
		return a.watch(ctx, path, reg)
	}
	return a.execute(ctx, path, reg)
}
