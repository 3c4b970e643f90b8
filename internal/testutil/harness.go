// Package testutil holds helpers shared by package tests: a thread-safe
// buffer, a logger-carrying context, recipe file fixtures and a fake Runner.
package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/recipego/internal/ctxlog"
	"github.com/specialistvlad/recipego/internal/recipe"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Context returns a context carrying a debug-level logger that writes into a
// buffer. Set RECIPEGO_TEST_LOGS=true to dump the buffer into the test log.
func Context(t *testing.T) (context.Context, *SafeBuffer) {
	t.Helper()
	logs := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	t.Cleanup(func() {
		if os.Getenv("RECIPEGO_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return ctxlog.WithLogger(context.Background(), logger), logs
}

// WriteFile writes content to name inside dir and returns the full path.
// Intermediate directories are created.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// Recipe is a shorthand constructor for test recipes.
func Recipe(name string, deps []string, commands ...string) *recipe.Recipe {
	r := &recipe.Recipe{Name: recipe.Name(name), Commands: commands}
	for _, d := range deps {
		r.Dependencies = append(r.Dependencies, recipe.Name(d))
	}
	return r
}

// Registry builds a registry from recipes, failing the test on duplicates.
func Registry(t *testing.T, recipes ...*recipe.Recipe) *recipe.Registry {
	t.Helper()
	reg := recipe.NewRegistry()
	for _, r := range recipes {
		require.NoError(t, reg.Add(r))
	}
	return reg
}
