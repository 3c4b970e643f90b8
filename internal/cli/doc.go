// Package cli parses the command line, merges it with the config file and
// RECIPEGO_* environment variables, and owns the process-level concerns:
// signal handling, exit codes and the one-line diagnostics printed on failure.
package cli
