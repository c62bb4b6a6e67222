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
	"github.com/bureau-foundation/fleetwatch/lib/schema/telemetry"
)

type appsParams struct {
	CollectorConnection
	cli.JSONOutput
	Type string `json:"type" flag:"type" desc:"only applications of this type (api, database, webui)"`
}

// AppsCommand returns the "apps" command.
func AppsCommand() *cli.Command {
	var params appsParams
	return &cli.Command{
		Name:    "apps",
		Summary: "List registered applications",
		Description: `List every producer instance registered with the collector, ordered
by instance id. Re-registrations replace the earlier record, so each
instance appears once.`,
		Usage: "fleetwatch apps [flags]",
		Examples: []cli.Example{
			{Description: "All registered applications", Command: "fleetwatch apps"},
			{Description: "Database instances as JSON", Command: "fleetwatch apps --type database --json"},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return runApps(ctx, &params, os.Stdout)
		},
	}
}

func runApps(ctx context.Context, params *appsParams, out io.Writer) error {
	var filter telemetry.AppType
	if params.Type != "" {
		appType, err := telemetry.ParseAppType(params.Type)
		if err != nil {
			return cli.Validation("--type: %w", err)
		}
		filter = appType
	}

	client, err := params.connect()
	if err != nil {
		return err
	}
	callCtx, cancel := params.callContext(ctx)
	defer cancel()

	response, err := client.Applications(callCtx)
	if err != nil {
		return params.classify(err, "listing applications")
	}

	if filter != "" {
		matched := response.Applications[:0:0]
		for _, application := range response.Applications {
			if application.AppType == filter {
				matched = append(matched, application)
			}
		}
		response.Applications = matched
		response.Count = len(matched)
	}

	if done, err := params.EmitJSON(out, response); done {
		return err
	}

	fmt.Fprintln(out, applicationsTable(response.Applications))
	fmt.Fprintf(out, "%d applications\n", response.Count)
	return nil
}
