// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bureau-foundation/fleetwatch/cmd/fleetwatch/cli"
	"github.com/bureau-foundation/fleetwatch/cmd/fleetwatch/fleet"
	"github.com/bureau-foundation/fleetwatch/lib/version"
)

func main() {
	if err := run(); err != nil {
		// Commands that print their own output (like health) return an
		// ExitError with the desired exit code.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return rootCommand().Execute(ctx, os.Args[1:])
}

func rootCommand() *cli.Command {
	return &cli.Command{
		Name: "fleetwatch",
		Description: `Fleetwatch queries a telemetry collector: registered applications,
recent security events, and aggregate statistics.`,
		Subcommands: []*cli.Command{
			fleet.AppsCommand(),
			fleet.EventsCommand(),
			fleet.StatsCommand(),
			fleet.HealthCommand(),
			fleet.TopCommand(),
			versionCommand(),
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			fmt.Printf("fleetwatch %s\n", version.Full())
			return nil
		},
	}
}
