package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/osse101/PickariaJobs_Go/internal/config"
	"github.com/osse101/PickariaJobs_Go/internal/logger"
)

func main() {
	registry := NewRegistry()
	registry.Register(&MigrateCommand{})
	registry.Register(&JoinCommand{})
	registry.Register(&LeaveCommand{})
	registry.Register(&AwardCommand{})
	registry.Register(&StatusCommand{})
	registry.Register(&CooldownCommand{})
	registry.Register(&LevelsCommand{})

	if len(os.Args) < 2 {
		registry.PrintHelp()
		os.Exit(1)
	}

	cmd, ok := registry.Get(os.Args[1])
	if !ok {
		PrintError("Unknown command: %s", os.Args[1])
		registry.PrintHelp()
		os.Exit(1)
	}

	if err := run(cmd, os.Args[2:]); err != nil {
		PrintError("%v", err)
		os.Exit(1)
	}
}

func run(cmd Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	initLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithEventID(ctx, logger.NewEventID())

	app, err := NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	return cmd.Run(app, args)
}
