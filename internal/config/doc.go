// Package config defines the runtime settings of the runner and the Loader
// interface implemented by each recipe file format.
//
// Settings are populated by viper from defaults, an optional YAML file,
// RECIPEGO_* environment variables and command-line flags, in increasing
// order of precedence.
package config
