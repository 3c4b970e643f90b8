package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/recipego/internal/app"
	"github.com/specialistvlad/recipego/internal/config"
	"github.com/specialistvlad/recipego/internal/executor"
	"github.com/specialistvlad/recipego/internal/fsutil"
	"github.com/specialistvlad/recipego/internal/recipe"
	"github.com/specialistvlad/recipego/internal/testutil"
)

const recipes = `# Compile everything
build:
    echo ok

test: build
    echo done
`

type harness struct {
	dir    string
	runner *testutil.FakeRunner
	stdout *bytes.Buffer
	stderr *testutil.SafeBuffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "Recipefile", recipes)
	return &harness{
		dir:    dir,
		runner: testutil.NewFakeRunner(),
		stdout: &bytes.Buffer{},
		stderr: &testutil.SafeBuffer{},
	}
}

func (h *harness) execute(args ...string) error {
	return Execute(context.Background(), args, Options{
		Streams: app.Streams{Stdout: h.stdout, Stderr: h.stderr},
		Runner:  h.runner,
		WorkDir: h.dir,
	})
}

func TestExecute_RunsRequestedRecipe(t *testing.T) {
	// --- Arrange ---
	h := newHarness(t)

	// --- Act ---
	err := h.execute("test")

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{"echo ok", "echo done"}, h.runner.Lines())
}

func TestExecute_NoArgumentRunsFirstRecipe(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.execute())
	assert.Equal(t, []string{"echo ok"}, h.runner.Lines())
}

func TestExecute_ModesAndFlags(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.execute("--list"))
		assert.Contains(t, h.stdout.String(), "# Compile everything")
		assert.Empty(t, h.runner.Lines())
	})

	t.Run("dump json", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.execute("--dump", "--dump-format", "json"))
		assert.Contains(t, h.stdout.String(), `"recipes"`)
	})

	t.Run("dry run", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.execute("-n", "test"))
		assert.Equal(t, "# build\necho ok\n# test\necho done\n", h.stdout.String())
		assert.Empty(t, h.runner.Lines())
	})

	t.Run("explicit file", func(t *testing.T) {
		h := newHarness(t)
		other := testutil.WriteFile(t, h.dir, "other/tasks", "lint:\n    golangci-lint run\n")
		require.NoError(t, h.execute("-f", other))
		assert.Equal(t, []string{"golangci-lint run"}, h.runner.Lines())
	})
}

func TestExecute_UsageErrors(t *testing.T) {
	testCases := []struct {
		name    string
		args    []string
		message string
	}{
		{name: "unknown flag", args: []string{"--this-is-not-a-valid-flag"}, message: "unknown flag"},
		{name: "too many recipes", args: []string{"build", "test"}, message: "expected at most one recipe"},
		{name: "list and dump", args: []string{"--list", "--dump"}, message: "cannot be used together"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)

			err := h.execute(tc.args...)

			require.Error(t, err)
			assert.Equal(t, ExitUsage, ExitCode(err))
			assert.Contains(t, err.Error(), tc.message)
			assert.Empty(t, h.runner.Lines())
		})
	}
}

func TestExecute_Help(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.execute("-h"))
	assert.Contains(t, h.stdout.String(), "Usage:")
	assert.Contains(t, h.stdout.String(), "--dry-run")
}

func TestExecute_ConfigSources(t *testing.T) {
	t.Run("local config file", func(t *testing.T) {
		h := newHarness(t)
		testutil.WriteFile(t, h.dir, ".recipego.yaml", "default_action: list\n")

		require.NoError(t, h.execute())
		assert.Contains(t, h.stdout.String(), "Available recipes:")
		assert.Empty(t, h.runner.Lines())
	})

	t.Run("explicit config file", func(t *testing.T) {
		h := newHarness(t)
		cfg := testutil.WriteFile(t, t.TempDir(), "custom.yaml", "dry_run: true\n")

		require.NoError(t, h.execute("-c", cfg, "build"))
		assert.Equal(t, "# build\necho ok\n", h.stdout.String())
	})

	t.Run("missing explicit config file", func(t *testing.T) {
		h := newHarness(t)

		err := h.execute("-c", h.dir+"/nope.yaml")
		require.ErrorIs(t, err, config.ErrInvalid)
		assert.Equal(t, ExitInternal, ExitCode(err))
	})

	t.Run("environment", func(t *testing.T) {
		h := newHarness(t)
		t.Setenv("RECIPEGO_DEFAULT_ACTION", "list")

		require.NoError(t, h.execute())
		assert.Contains(t, h.stdout.String(), "Available recipes:")
	})

	t.Run("flag beats config file", func(t *testing.T) {
		h := newHarness(t)
		testutil.WriteFile(t, h.dir, ".recipego.yaml", "dump_format: json\n")

		require.NoError(t, h.execute("--dump", "--dump-format", "yaml"))
		assert.Contains(t, h.stdout.String(), "recipes:\n")
	})

	t.Run("invalid setting", func(t *testing.T) {
		h := newHarness(t)

		err := h.execute("--log-level", "verbose")
		require.ErrorIs(t, err, config.ErrInvalid)
		assert.Equal(t, "recipego: configuration error: log_level must be \"debug\", \"info\", \"warn\", or \"error\", got \"verbose\"", Diagnostic(err))
	})
}

func TestExecute_FailureExitCodes(t *testing.T) {
	t.Run("failing command", func(t *testing.T) {
		h := newHarness(t)
		h.runner.ExitCodes["echo ok"] = 3

		err := h.execute("test")

		assert.Equal(t, 3, ExitCode(err))
		assert.Equal(t, []string{"echo ok"}, h.runner.Lines())
		assert.Equal(t, `recipego: command failed: recipe "build": command "echo ok" exited with status 3`, Diagnostic(err))
	})

	t.Run("unknown recipe", func(t *testing.T) {
		h := newHarness(t)

		err := h.execute("deploy")

		assert.Equal(t, ExitInternal, ExitCode(err))
		assert.Equal(t, `recipego: unknown recipe: recipe "deploy" not found`, Diagnostic(err))
	})
}

func TestExitCode(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want int
	}{
		{name: "success", err: nil, want: 0},
		{name: "usage", err: &ExitError{Code: ExitUsage, Message: "bad"}, want: 2},
		{name: "command status", err: &executor.CommandError{ExitCode: 42}, want: 42},
		{name: "wrapped command status", err: fmt.Errorf("run: %w", &executor.CommandError{ExitCode: 7}), want: 7},
		{name: "spawn failure", err: &executor.CommandError{ExitCode: -1, Err: os.ErrNotExist}, want: ExitInternal},
		{name: "sigint", err: &executor.InterruptError{Signal: os.Interrupt}, want: 130},
		{name: "sigterm", err: &executor.InterruptError{Signal: syscall.SIGTERM}, want: 143},
		{name: "plain cancellation", err: &executor.InterruptError{Err: context.Canceled}, want: 130},
		{name: "parse error", err: &recipe.ParseError{Line: 1, Msg: "bad"}, want: ExitInternal},
		{name: "cycle", err: &recipe.CycleError{Cycle: []recipe.Name{"a", "b", "a"}}, want: ExitInternal},
		{name: "unknown", err: &recipe.UnknownRecipeError{Name: "x"}, want: ExitInternal},
		{name: "anything else", err: errors.New("boom"), want: ExitInternal},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExitCode(tc.err))
		})
	}
}

func TestDiagnostic(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "parse error",
			err:  &recipe.ParseError{File: "Recipefile", Line: 3, Msg: "expected ':' in recipe header \"build\""},
			want: `recipego: parse error: Recipefile:3: expected ':' in recipe header "build"`,
		},
		{
			name: "cycle",
			err:  &recipe.CycleError{Cycle: []recipe.Name{"a", "b", "a"}},
			want: "recipego: dependency cycle: a -> b -> a",
		},
		{
			name: "spawn failure",
			err:  &executor.CommandError{Recipe: "x", Command: "true", ExitCode: -1, Err: errors.New("exec: \"sh\": not found")},
			want: `recipego: spawn failed: recipe "x": command "true" could not be started: exec: "sh": not found`,
		},
		{
			name: "interrupt",
			err:  &executor.InterruptError{Signal: os.Interrupt},
			want: "recipego: interrupted: interrupted by signal interrupt",
		},
		{
			name: "no recipe file",
			err:  &fsutil.NotFoundError{Start: "/src", Names: []string{"Recipefile"}},
			want: "recipego: recipe file not found: no recipe file (Recipefile) found in /src or any parent directory",
		},
		{
			name: "other",
			err:  errors.New("boom"),
			want: "recipego: error: boom",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Diagnostic(tc.err))
		})
	}
}
