// Package graceful ties process signals to context cancellation so a
// generation run can stop dispatching work and let in-flight tiles finish.
package graceful

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
)

// Context returns a context cancelled on SIGINT or SIGTERM. A second signal
// terminates the process immediately for runs that refuse to wind down.
func Context(ctx context.Context, log *logrus.Logger) (context.Context, context.CancelFunc) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	ctx, cancel := context.WithCancel(ctx)

	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("received termination signal, finishing in-flight tiles...")
		cancel()

		<-sigChan
		log.Warn("second termination signal, exiting immediately")
		os.Exit(1)
	}()

	return ctx, cancel
}
