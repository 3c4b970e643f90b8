package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/recipego/internal/config"
)

// Mode selects what an App does with the loaded recipe file.
type Mode int

const (
	// ModeRun resolves and executes a recipe.
	ModeRun Mode = iota
	// ModeList prints the recipes.
	ModeList
	// ModeDump prints the parsed recipe file as YAML or JSON.
	ModeDump
)

func (m Mode) String() string {
	switch m {
	case ModeRun:
		return "run"
	case ModeList:
		return "list"
	case ModeDump:
		return "dump"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Config holds everything an App needs for one invocation.
type Config struct {
	Settings config.Settings
	Mode     Mode
	// Recipe is the requested recipe; empty means the default action.
	Recipe string
	// WorkDir is where the recipe file search starts and where commands run.
	// Empty means the process working directory.
	WorkDir string
	// Report, when set, receives errors of individual watch-mode runs, which
	// do not end the watch.
	Report func(error)
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if err := config.Validate(cfg.Settings); err != nil {
		return nil, err
	}
	if cfg.Settings.Watch && cfg.Mode != ModeRun {
		return nil, fmt.Errorf("%w: watch mode cannot be combined with --%s", config.ErrInvalid, cfg.Mode)
	}
	return &cfg, nil
}

// ErrNoRecipes is returned when a run is requested without a recipe name and
// the recipe file defines nothing to fall back to.
var ErrNoRecipes = errors.New("recipe file defines no recipes")
