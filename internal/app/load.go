package app

import (
	"context"
	"os"
	"path/filepath"

	"github.com/specialistvlad/recipego/internal/ctxlog"
	"github.com/specialistvlad/recipego/internal/fsutil"
	"github.com/specialistvlad/recipego/internal/recipe"
	"github.com/specialistvlad/recipego/internal/resolver"
)

// workDir returns the configured working directory or the process's.
func (a *App) workDir() (string, error) {
	if a.cfg.WorkDir != "" {
		return a.cfg.WorkDir, nil
	}
	return os.Getwd()
}

// recipeFilePath returns the explicit recipe file, relative to the working
// directory, or searches for one of the configured names.
func (a *App) recipeFilePath(ctx context.Context) (string, error) {
	logger := ctxlog.FromContext(ctx)

	dir, err := a.workDir()
	if err != nil {
		return "", err
	}

	if file := a.cfg.Settings.File; file != "" {
		if !filepath.IsAbs(file) {
			file = filepath.Join(dir, file)
		}
		logger.Debug("Using explicit recipe file.", "path", file)
		return file, nil
	}

	path, err := fsutil.FindUp(dir, a.cfg.Settings.RecipeFiles)
	if err != nil {
		return "", err
	}
	logger.Debug("Found recipe file.", "path", path)
	return path, nil
}

// load reads the recipe file and checks the whole registry before anything
// runs: every dependency must exist and no cycle may exist anywhere.
func (a *App) load(ctx context.Context, path string) (*recipe.Registry, error) {
	reg, err := a.loaderFor(path).Load(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := resolver.Validate(ctx, reg); err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Recipe file validated.", "recipes", reg.Len())
	return reg, nil
}
