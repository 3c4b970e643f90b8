package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/specialistvlad/recipego/internal/ctxlog"
	"github.com/specialistvlad/recipego/internal/executor"
)

var interruptSignals = []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGHUP}

// withSignals returns a context cancelled by the first interrupt signal. The
// cancellation cause is an *executor.InterruptError naming the signal, which
// lets the exit status reflect it. stop releases the signal handler.
func withSignals(parent context.Context) (ctx context.Context, stop func()) {
	ctx, cancel := context.WithCancelCause(parent)
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, interruptSignals...)

	go func() {
		select {
		case sig := <-sigs:
			ctxlog.FromContext(ctx).Debug("Received signal, interrupting run.", "signal", sig.String())
			cancel(&executor.InterruptError{Signal: sig})
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigs)
		cancel(nil)
	}
}
