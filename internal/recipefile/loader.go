package recipefile

import (
	"context"
	"fmt"
	"os"

	"github.com/specialistvlad/recipego/internal/ctxlog"
	"github.com/specialistvlad/recipego/internal/recipe"
)

// Loader reads plain-text recipe files from disk.
type Loader struct{}

// NewLoader creates a new plain-text recipe file loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and parses the recipe file at path.
func (l *Loader) Load(ctx context.Context, path string) (*recipe.Registry, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading recipe file.", "path", path, "format", "text")

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading recipe file: %w", err)
	}

	reg, err := Parse(path, src)
	if err != nil {
		return nil, err
	}

	logger.Debug("Recipe file loaded.", "recipes", reg.Len())
	return reg, nil
}
