// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fleet

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bureau-foundation/fleetwatch/cmd/fleetwatch/cli"
)

type healthParams struct {
	CollectorConnection
	cli.JSONOutput
}

// HealthCommand returns the "health" command.
func HealthCommand() *cli.Command {
	var params healthParams
	return &cli.Command{
		Name:    "health",
		Summary: "Check collector health",
		Description: `Query the collector's unauthenticated /health endpoint. Exits 1 when
the collector reports anything other than healthy, so the command can
be used as a readiness check in scripts.`,
		Usage:  "fleetwatch health [flags]",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return runHealth(ctx, &params, os.Stdout)
		},
	}
}

func runHealth(ctx context.Context, params *healthParams, out io.Writer) error {
	client, err := params.connect()
	if err != nil {
		return err
	}
	callCtx, cancel := params.callContext(ctx)
	defer cancel()

	health, err := client.Health(callCtx)
	if err != nil {
		return params.classify(err, "checking health")
	}

	if done, err := params.EmitJSON(out, health); !done {
		fmt.Fprintf(out, "%s: %s %s (%s)\n", health.Status, health.Service, health.Version, formatTime(health.Timestamp))
	} else if err != nil {
		return err
	}

	if health.Status != "healthy" {
		return &cli.ExitError{Code: 1}
	}
	return nil
}
