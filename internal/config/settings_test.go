package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaults_AreValid(t *testing.T) {
	require.NoError(t, Validate(Defaults()))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(s *Settings)
		errContains string
	}{
		{
			name:   "explicit file without search names",
			mutate: func(s *Settings) { s.File = "Recipefile"; s.RecipeFiles = nil },
		},
		{
			name:        "no file and no search names",
			mutate:      func(s *Settings) { s.RecipeFiles = nil },
			errContains: "recipe_files",
		},
		{
			name:        "unknown default action",
			mutate:      func(s *Settings) { s.DefaultAction = "run-all" },
			errContains: `default_action must be "first" or "list", got "run-all"`,
		},
		{
			name:        "unknown log level",
			mutate:      func(s *Settings) { s.LogLevel = "trace" },
			errContains: "log_level",
		},
		{
			name:        "unknown log format",
			mutate:      func(s *Settings) { s.LogFormat = "xml" },
			errContains: "log_format",
		},
		{
			name:        "unknown dump format",
			mutate:      func(s *Settings) { s.DumpFormat = "toml" },
			errContains: "dump_format",
		},
		{
			name:        "negative kill grace",
			mutate:      func(s *Settings) { s.KillGrace = -time.Second },
			errContains: "kill_grace",
		},
		{
			name:        "negative debounce",
			mutate:      func(s *Settings) { s.WatchDebounce = -time.Second },
			errContains: "watch_debounce",
		},
		{
			name:        "file exporter needs a path",
			mutate:      func(s *Settings) { s.Tracing.Exporter = "file" },
			errContains: "tracing.file_path",
		},
		{
			name:   "file exporter with path",
			mutate: func(s *Settings) { s.Tracing.Exporter = "file"; s.Tracing.FilePath = "traces.jsonl" },
		},
		{
			name:        "unknown exporter",
			mutate:      func(s *Settings) { s.Tracing.Exporter = "jaeger" },
			errContains: "tracing.exporter",
		},
		{
			name:        "sample rate out of range",
			mutate:      func(s *Settings) { s.Tracing.SampleRate = 1.5 },
			errContains: "tracing.sample_rate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			tt.mutate(&s)

			err := Validate(s)
			if tt.errContains == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalid)
			require.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestShellArgs(t *testing.T) {
	s := Settings{Shell: "  bash   -eu -c "}
	require.Equal(t, []string{"bash", "-eu", "-c"}, s.ShellArgs())
	require.Empty(t, Settings{}.ShellArgs())
}
