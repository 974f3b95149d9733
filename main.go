// ./main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hackparv/operate/cmd"
	"github.com/hackparv/operate/internal/observability"
)

// main is the entry point of the application. Normal completion exits 0;
// iteration-cap or fatal errors exit non-zero with a human-readable cause.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)
	observability.Sync()
	if err != nil {
		os.Exit(1)
	}
}
