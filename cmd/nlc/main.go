package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nlcmd/cli/internal/interfaces/cli"
	"github.com/nlcmd/cli/internal/interfaces/di"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cli.Version = version
	cli.BuildTime = buildTime

	container, err := di.NewContainer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer container.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := container.WatchManifests(ctx); err != nil {
		container.Logger.Warn().Err(err).Msg("manifest watching disabled")
	}

	cli.Execute(container.GetCLIContainer())
}
