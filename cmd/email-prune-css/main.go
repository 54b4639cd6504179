package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"bennypowers.dev/emailprune/internal/app"
)

func main() {
	// cancellation is checked between input files
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// the command logs its own errors, only the exit status is left to set
	err := app.New().Run(ctx, os.Args)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
