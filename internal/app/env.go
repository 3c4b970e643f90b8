package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/joho/godotenv"

	"github.com/specialistvlad/recipego/internal/ctxlog"
)

// environment builds the command environment: the process environment plus
// the variables of the dotenv file, if any. Variables already set in the
// process win. A nil result means "inherit unchanged".
func (a *App) environment(ctx context.Context, recipeFile string) ([]string, error) {
	logger := ctxlog.FromContext(ctx)
	s := a.cfg.Settings

	path := s.Dotenv
	required := path != ""
	if !required {
		if !s.DotenvLoad {
			return nil, nil
		}
		path = filepath.Join(filepath.Dir(recipeFile), ".env")
	} else if !filepath.IsAbs(path) {
		dir, err := a.workDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, path)
	}

	vars, err := godotenv.Read(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			logger.Debug("No dotenv file found.", "path", path)
			return nil, nil
		}
		return nil, fmt.Errorf("reading dotenv file: %w", err)
	}

	env := os.Environ()
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	added := 0
	for _, k := range keys {
		if _, exists := os.LookupEnv(k); exists {
			continue
		}
		env = append(env, k+"="+vars[k])
		added++
	}
	logger.Debug("Loaded dotenv file.", "path", path, "variables", len(vars), "added", added)
	return env, nil
}
