//go:build !windows

package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/recipego/internal/executor"
	"github.com/specialistvlad/recipego/internal/recipe"
)

// These scenarios run real commands through sh.

func TestScenario_BuildThenTest(t *testing.T) {
	app, stdout, _ := setupAppTest(t, buildTest, func(c *Config) { c.Recipe = "test" }, nil)

	require.NoError(t, app.Run(context.Background()))
	assert.Equal(t, "ok\ndone\n", stdout.String())
}

func TestScenario_MutualDependencyRunsNothing(t *testing.T) {
	src := "a: b\n    echo a\n\nb: a\n    echo b\n"
	app, stdout, _ := setupAppTest(t, src, func(c *Config) { c.Recipe = "a" }, nil)

	err := app.Run(context.Background())

	var cycle *recipe.CycleError
	require.ErrorAs(t, err, &cycle)
	assert.Contains(t, err.Error(), "a -> b -> a")
	assert.Empty(t, stdout.String())
}

func TestScenario_FailStopsAtFirstFailure(t *testing.T) {
	src := "fail:\n    true\n    false\n    echo unreachable\n"
	app, stdout, _ := setupAppTest(t, src, func(c *Config) { c.Recipe = "fail" }, nil)

	err := app.Run(context.Background())

	var cmdErr *executor.CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 1, cmdErr.ExitCode)
	assert.Equal(t, "false", cmdErr.Command)
	assert.Equal(t, recipe.Name("fail"), cmdErr.Recipe)
	assert.NotContains(t, stdout.String(), "unreachable")
}

func TestScenario_CommandsRunInWorkDir(t *testing.T) {
	app, stdout, _ := setupAppTest(t, "where:\n    ls Recipefile\n", nil, nil)

	require.NoError(t, app.Run(context.Background()))
	assert.Equal(t, "Recipefile\n", stdout.String())
}

func TestScenario_EchoWritesCommandsToStderr(t *testing.T) {
	app, stdout, stderr := setupAppTest(t, buildTest, func(c *Config) {
		c.Recipe = "test"
		c.Settings.Echo = true
		c.Settings.LogLevel = "error"
	}, nil)

	require.NoError(t, app.Run(context.Background()))
	assert.Equal(t, "ok\ndone\n", stdout.String())
	assert.Equal(t, "[build] echo ok\n[test] echo done\n", stderr.String())
}
