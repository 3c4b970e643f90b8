package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/specialistvlad/recipego/internal/app"
	"github.com/specialistvlad/recipego/internal/cli"
)

// main is the entrypoint for the recipego application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	os.Exit(run(os.Stdin, os.Stdout, os.Stderr, os.Args[1:]))
}

// run executes the command and turns its outcome into an exit status,
// printing one diagnostic line for a failure.
func run(inR io.Reader, outW, errW io.Writer, args []string) int {
	err := cli.Execute(context.Background(), args, cli.Options{
		Streams: app.Streams{Stdin: inR, Stdout: outW, Stderr: errW},
	})
	if err != nil {
		fmt.Fprintln(errW, cli.Diagnostic(err))
	}
	return cli.ExitCode(err)
}
