package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/billbook-dev/billbook/internal/commands"
	"github.com/billbook-dev/billbook/internal/logging"
)

func main() {
	logging.Setup("")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.NewRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
