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

type statsParams struct {
	CollectorConnection
	cli.JSONOutput
}

// StatsCommand returns the "stats" command.
func StatsCommand() *cli.Command {
	var params statsParams
	return &cli.Command{
		Name:    "stats",
		Summary: "Show aggregate event statistics",
		Description: `Show event counts by type, severity, and application, plus the
number of registered applications per type. Counts cover the events
the collector currently retains.`,
		Usage:  "fleetwatch stats [flags]",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return runStats(ctx, &params, os.Stdout)
		},
	}
}

func runStats(ctx context.Context, params *statsParams, out io.Writer) error {
	client, err := params.connect()
	if err != nil {
		return err
	}
	callCtx, cancel := params.callContext(ctx)
	defer cancel()

	stats, err := client.Stats(callCtx)
	if err != nil {
		return params.classify(err, "fetching stats")
	}

	if done, err := params.EmitJSON(out, stats); done {
		return err
	}
	fmt.Fprintln(out, statsView(stats))
	return nil
}
