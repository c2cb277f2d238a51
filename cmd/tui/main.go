// Package main starts the terminal display front-end.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	tuicmd "github.com/louisbranch/demofront/internal/cmd/tui"
	"github.com/louisbranch/demofront/internal/platform/config"
)

func main() {
	cfg, err := tuicmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := tuicmd.Run(ctx, cfg); err != nil {
		config.Exitf("Error: %v", err)
	}
}
