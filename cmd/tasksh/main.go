// Package main is the entry point for the tasksh shell.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"tasksh/internal/backend/asana"
	"tasksh/internal/cli"
	"tasksh/internal/commands"
	"tasksh/internal/config"
	"tasksh/internal/service"
)

func main() {
	// Create context that cancels on termination
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// SIGTERM ends the session; the shell scopes SIGINT to one command
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	factory := func(ctx context.Context, cfg *config.Config, apiKey string, log *slog.Logger) (service.Service, error) {
		return asana.New(ctx, cfg, apiKey, log), nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory, cli.LinerReaders)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}
