package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalid is wrapped by every error returned from Validate.
var ErrInvalid = errors.New("invalid configuration")

// Settings holds everything that influences a run.
type Settings struct {
	// File is an explicit recipe file path. When empty the file is searched
	// for by name, see RecipeFiles.
	File string `mapstructure:"file"`

	// RecipeFiles are the file names looked for in the working directory and
	// its parents, in order of preference.
	RecipeFiles []string `mapstructure:"recipe_files"`

	// DefaultAction decides what happens when no recipe is named:
	// "first" runs the first declared recipe, "list" prints the recipe list.
	DefaultAction string `mapstructure:"default_action"`

	// Shell is the command prefix used to run a command line, e.g. "sh -c".
	// Empty means the platform default.
	Shell string `mapstructure:"shell"`

	// KillGrace is how long an interrupted command may take to exit before
	// it is killed.
	KillGrace time.Duration `mapstructure:"kill_grace"`

	// Dotenv names a file whose variables are added to the command
	// environment. DotenvLoad loads ".env" next to the recipe file when
	// Dotenv is empty.
	Dotenv     string `mapstructure:"dotenv"`
	DotenvLoad bool   `mapstructure:"dotenv_load"`

	Echo   bool `mapstructure:"echo"`
	DryRun bool `mapstructure:"dry_run"`

	Watch         bool          `mapstructure:"watch"`
	WatchDebounce time.Duration `mapstructure:"watch_debounce"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	DumpFormat string `mapstructure:"dump_format"`

	Tracing TracingConfig `mapstructure:"tracing"`
}

// TracingConfig selects where run, recipe and command spans are exported.
type TracingConfig struct {
	// Exporter is one of "none", "file", "stdout" or "otlp".
	Exporter string `mapstructure:"exporter"`
	// FilePath is the output file for the "file" exporter.
	FilePath string `mapstructure:"file_path"`
	// OTLPEndpoint is the collector address for the "otlp" exporter.
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	// SampleRate is the fraction of runs traced, 0.0 to 1.0.
	SampleRate float64 `mapstructure:"sample_rate"`
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Settings {
	return Settings{
		RecipeFiles:   []string{"Recipefile", "recipefile", "Recipefile.hcl", "justfile", "Justfile"},
		DefaultAction: "first",
		KillGrace:     5 * time.Second,
		DotenvLoad:    false,
		WatchDebounce: 200 * time.Millisecond,
		LogLevel:      "warn",
		LogFormat:     "text",
		DumpFormat:    "yaml",
		Tracing: TracingConfig{
			Exporter:     "none",
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// ShellArgs splits Shell into a program and its leading arguments.
func (s Settings) ShellArgs() []string {
	return strings.Fields(s.Shell)
}

// Validate checks settings for errors. Every returned error wraps ErrInvalid.
func Validate(s Settings) error {
	if s.File == "" && len(s.RecipeFiles) == 0 {
		return invalid("recipe_files must not be empty when no file is given")
	}

	switch s.DefaultAction {
	case "first", "list":
	default:
		return invalid("default_action must be \"first\" or \"list\", got %q", s.DefaultAction)
	}

	switch s.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return invalid("log_level must be \"debug\", \"info\", \"warn\", or \"error\", got %q", s.LogLevel)
	}

	switch s.LogFormat {
	case "text", "json":
	default:
		return invalid("log_format must be \"text\" or \"json\", got %q", s.LogFormat)
	}

	switch s.DumpFormat {
	case "yaml", "json":
	default:
		return invalid("dump_format must be \"yaml\" or \"json\", got %q", s.DumpFormat)
	}

	if s.KillGrace < 0 {
		return invalid("kill_grace must not be negative, got %s", s.KillGrace)
	}
	if s.WatchDebounce < 0 {
		return invalid("watch_debounce must not be negative, got %s", s.WatchDebounce)
	}

	return ValidateTracing(s.Tracing)
}

// ValidateTracing checks the tracing section. Empty values use defaults.
func ValidateTracing(t TracingConfig) error {
	switch t.Exporter {
	case "", "none", "file", "stdout", "otlp":
	default:
		return invalid("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", t.Exporter)
	}
	if t.Exporter == "file" && t.FilePath == "" {
		return invalid("tracing.file_path is required when tracing.exporter is \"file\"")
	}
	if t.SampleRate < 0 || t.SampleRate > 1 {
		return invalid("tracing.sample_rate must be between 0 and 1, got %v", t.SampleRate)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
