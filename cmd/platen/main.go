// Package main provides platen, a flat-file publishing engine.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/platenpress/platen/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exitCode := cli.Run(ctx, os.Stdin, os.Stdout, os.Stderr, os.Args[1:])

	os.Exit(exitCode)
}
