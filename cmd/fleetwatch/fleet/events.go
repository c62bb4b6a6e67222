// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fleet

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/bureau-foundation/fleetwatch/cmd/fleetwatch/cli"
	"github.com/bureau-foundation/fleetwatch/lib/schema/telemetry"
)

type eventsParams struct {
	CollectorConnection
	cli.JSONOutput
	Severity  string `json:"severity" flag:"severity" desc:"only events of this severity (low, medium, high, critical, unknown)"`
	EventType string `json:"event_type" flag:"type" desc:"only events of this type (e.g. sql_injection)"`
	Limit     int    `json:"limit" flag:"limit,n" desc:"maximum number of events, most recent first" default:"20"`
}

// EventsCommand returns the "events" command.
func EventsCommand() *cli.Command {
	var params eventsParams
	return &cli.Command{
		Name:    "events",
		Summary: "List recent security events",
		Description: `List the most recent security events held by the collector, newest
first. Filters combine with AND. The collector only retains its most
recent events, so older ones may have been evicted.`,
		Usage: "fleetwatch events [flags]",
		Examples: []cli.Example{
			{Description: "The 20 most recent events", Command: "fleetwatch events"},
			{Description: "Critical SQL injections", Command: "fleetwatch events --severity critical --type sql_injection"},
			{Description: "Up to 500 events as JSON", Command: "fleetwatch events -n 500 --json"},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return runEvents(ctx, &params, os.Stdout)
		},
	}
}

func runEvents(ctx context.Context, params *eventsParams, out io.Writer) error {
	severity := strings.ToLower(strings.TrimSpace(params.Severity))
	if severity != "" && severity != string(telemetry.SeverityUnknown) &&
		telemetry.NormalizeSeverity(severity) == telemetry.SeverityUnknown {
		return cli.Validation("--severity: unknown severity %q", params.Severity).
			WithHint("Use one of low, medium, high, critical, or unknown.")
	}
	if params.Limit < 0 {
		return cli.Validation("--limit must not be negative, got %d", params.Limit)
	}

	client, err := params.connect()
	if err != nil {
		return err
	}
	callCtx, cancel := params.callContext(ctx)
	defer cancel()

	response, err := client.Events(callCtx, telemetry.EventQuery{
		Severity:  severity,
		EventType: params.EventType,
		Limit:     params.Limit,
	})
	if err != nil {
		return params.classify(err, "querying events")
	}

	if done, err := params.EmitJSON(out, response); done {
		return err
	}

	fmt.Fprintln(out, eventsTable(response.Events))
	fmt.Fprintf(out, "showing %d of %d matching events (%d stored)\n",
		len(response.Events), response.Count, response.TotalEvents)
	return nil
}
