package config

import (
	"context"

	"github.com/specialistvlad/recipego/internal/recipe"
)

// Loader is the interface for a format-specific recipe file loader.
type Loader interface {
	// Load reads the recipe file at path and returns its recipes in
	// declaration order.
	Load(ctx context.Context, path string) (*recipe.Registry, error)
}
