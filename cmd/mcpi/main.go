// Package main is the entry point for the mcpi CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/thoreinstein/mcpi/cmd/mcpi/commands"
	"github.com/thoreinstein/mcpi/internal/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.Execute(ctx)
	stop()

	if err != nil {
		commands.ReportError(os.Stderr, err)
		os.Exit(errors.ExitCode(err))
	}
}
