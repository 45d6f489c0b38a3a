package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/yndnr/civ7save-go/internal/cli/command"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := command.App().RunContext(ctx, os.Args)
	stop()

	if err != nil {
		command.PrintError("%v", err)
		os.Exit(1)
	}
}
