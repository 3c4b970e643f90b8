package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/specialistvlad/recipego/internal/app"
	"github.com/specialistvlad/recipego/internal/config"
	"github.com/specialistvlad/recipego/internal/executor"
)

const commandName = "recipego"

// version is overridden at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

// Options carries the process streams and test seams into the command.
type Options struct {
	Streams app.Streams
	// Runner replaces the shell runner; nil means run real commands.
	Runner executor.Runner
	// WorkDir overrides the process working directory.
	WorkDir string
}

// flagKeys maps command-line flags to settings keys.
var flagKeys = map[string]string{
	"file":        "file",
	"dump-format": "dump_format",
	"dry-run":     "dry_run",
	"echo":        "echo",
	"watch":       "watch",
	"shell":       "shell",
	"dotenv":      "dotenv",
	"log-level":   "log_level",
	"log-format":  "log_format",
	"trace-file":  "tracing.file_path",
}

// NewRootCommand builds the recipego command. Errors it returns are already
// classified: see ExitCode and Diagnostic.
func NewRootCommand(opts Options) *cobra.Command {
	var cfgFile string
	v := viper.New()

	cmd := &cobra.Command{
		Use:   commandName + " [flags] [RECIPE]",
		Short: "Run named recipes of shell commands",
		Long: `recipego reads a recipe file, resolves the requested recipe together with
the recipes it depends on, and runs their commands in order through the shell.
The first failing command stops the run and its exit status becomes ours.

Without a RECIPE argument the default action applies: run the first recipe in
the file, or list the recipes when default_action is "list".`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return usageError("expected at most one recipe, got %d: %s", len(args), strings.Join(args, " "))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(v, cfgFile, opts.WorkDir)
			if err != nil {
				return err
			}

			mode, err := selectMode(cmd.Flags())
			if err != nil {
				return err
			}

			var recipeName string
			if len(args) == 1 {
				recipeName = args[0]
			}

			stderr := opts.Streams.Stderr
			cfg, err := app.NewConfig(app.Config{
				Settings: settings,
				Mode:     mode,
				Recipe:   recipeName,
				WorkDir:  opts.WorkDir,
				Report: func(err error) {
					if stderr != nil {
						fmt.Fprintln(stderr, Diagnostic(err))
					}
				},
			})
			if err != nil {
				return err
			}

			ctx, stop := withSignals(cmd.Context())
			defer stop()

			return app.NewApp(opts.Streams, cfg, opts.Runner).Run(ctx)
		},
	}

	cmd.SetIn(opts.Streams.Stdin)
	cmd.SetOut(opts.Streams.Stdout)
	cmd.SetErr(opts.Streams.Stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError("%v", err)
	})

	defaults := config.Defaults()
	flags := cmd.Flags()
	cmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .recipego.yaml, then ~/.config/recipego/config.yaml)")
	flags.StringP("file", "f", "", "recipe file to use instead of searching for one")
	flags.BoolP("list", "l", false, "list the recipes and exit")
	flags.Bool("dump", false, "print the parsed recipe file and exit")
	flags.String("dump-format", defaults.DumpFormat, "format for --dump: yaml or json")
	flags.BoolP("dry-run", "n", false, "print the commands that would run without running them")
	flags.Bool("echo", false, "print each command to stderr before running it")
	flags.BoolP("watch", "w", false, "run again whenever files next to the recipe file change; changes made during a run are ignored")
	flags.String("shell", "", `shell used to run commands (default "sh -c")`)
	flags.String("dotenv", "", "load variables from this file into the command environment")
	flags.String("log-level", defaults.LogLevel, "log level: debug, info, warn or error")
	flags.String("log-format", defaults.LogFormat, "log format: text or json")
	flags.String("trace-file", "", "write OpenTelemetry spans for the run to this file")

	for flag, key := range flagKeys {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	return cmd
}

// selectMode reads the mutually exclusive mode flags.
func selectMode(flags *pflag.FlagSet) (app.Mode, error) {
	list, _ := flags.GetBool("list")
	dump, _ := flags.GetBool("dump")
	switch {
	case list && dump:
		return app.ModeRun, usageError("--list and --dump cannot be used together")
	case list:
		return app.ModeList, nil
	case dump:
		return app.ModeDump, nil
	default:
		return app.ModeRun, nil
	}
}

// setDefaults registers every settings key, which also makes each key
// visible to AutomaticEnv during Unmarshal.
func setDefaults(v *viper.Viper) {
	d := config.Defaults()
	v.SetDefault("file", d.File)
	v.SetDefault("recipe_files", d.RecipeFiles)
	v.SetDefault("default_action", d.DefaultAction)
	v.SetDefault("shell", d.Shell)
	v.SetDefault("kill_grace", d.KillGrace)
	v.SetDefault("dotenv", d.Dotenv)
	v.SetDefault("dotenv_load", d.DotenvLoad)
	v.SetDefault("echo", d.Echo)
	v.SetDefault("dry_run", d.DryRun)
	v.SetDefault("watch", d.Watch)
	v.SetDefault("watch_debounce", d.WatchDebounce)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("dump_format", d.DumpFormat)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
}

// loadSettings merges defaults, the config file, RECIPEGO_* environment
// variables and flags.
//
// Config lookup order:
//  1. --config
//  2. .recipego.yaml in the working directory
//  3. ~/.config/recipego/config.yaml
func loadSettings(v *viper.Viper, cfgFile, workDir string) (config.Settings, error) {
	setDefaults(v)
	v.SetEnvPrefix("RECIPEGO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		local := filepath.Join(workDir, ".recipego.yaml")
		if _, err := os.Stat(local); err == nil {
			v.SetConfigFile(local)
		} else {
			if home, err := os.UserHomeDir(); err == nil {
				v.AddConfigPath(filepath.Join(home, ".config", "recipego"))
			}
			v.SetConfigName("config")
			v.SetConfigType("yaml")
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config.Settings{}, fmt.Errorf("%w: reading config file: %v", config.ErrInvalid, err)
		}
	}

	var settings config.Settings
	if err := v.Unmarshal(&settings); err != nil {
		return config.Settings{}, fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}
	return settings, nil
}

// Execute runs the root command with args and returns its error, if any.
func Execute(ctx context.Context, args []string, opts Options) error {
	cmd := NewRootCommand(opts)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}
