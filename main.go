// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/danielhkuo/flowhub/commands"
)

func main() {
	// Ctrl-C cancels a running spin or label request
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := commands.Execute(ctx, os.Args[1:])
	stop()
	if err != nil {
		// cobra has already printed the error
		os.Exit(1)
	}
}
