// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sampler

import "github.com/bureau-foundation/fleetwatch/lib/schema/telemetry"

var profiles = map[telemetry.AppType]Profile{
	telemetry.AppTypeAPI: {
		Gauges: []GaugeSpec{
			{Name: "active_sessions", Range: Range{50, 201}, Integer: true},
			{Name: "error_rate", Range: Range{0.5, 5.0}, Decimals: 2},
		},
		Series: []SeriesSpec{
			{Name: "requests", Label: "endpoint", Kind: Count, Keys: apiEndpoints, Range: Range{10, 101}},
			{Name: "response_time", Label: "endpoint", Kind: Duration, Keys: apiEndpoints, Range: Range{0.05, 0.5}},
		},
	},
	telemetry.AppTypeDatabase: {
		Gauges: []GaugeSpec{
			{Name: "active_connections", Range: Range{10, 81}, Integer: true},
			{Name: "pool_utilization", Range: Range{0.10, 0.80}, Decimals: 2},
		},
		Series: []SeriesSpec{
			{Name: "queries", Label: "query_type", Kind: Count, Keys: queryTypes, Range: Range{5, 51}},
			{
				Name: "query_duration", Label: "query_type", Kind: Duration, Keys: queryTypes,
				Range: Range{0.05, 0.3},
				Overrides: map[string]Range{
					"SELECT": {0.01, 0.5},
					"JOIN":   {0.5, 3.0},
				},
			},
		},
	},
	telemetry.AppTypeWebUI: {
		Gauges: []GaugeSpec{
			{Name: "active_sessions", Range: Range{20, 151}, Integer: true},
			{Name: "bounce_rate", Range: Range{0.2, 0.5}, Decimals: 2},
			{Name: "avg_session_duration_seconds", Range: Range{120, 601}, Integer: true},
		},
		Series: []SeriesSpec{
			{Name: "page_views", Label: "page", Kind: Count, Keys: webPages, Range: Range{5, 51}},
			{Name: "page_load", Label: "page", Kind: Duration, Keys: webPages, Range: Range{0.5, 3.0}},
			{Name: "clickstream_events", Label: "event_type", Kind: Count, Keys: clickstreamTypes, Range: Range{10, 101}},
		},
	},
}

var apiEndpoints = []string{
	"/api/v1/prescriptions",
	"/api/v1/medications",
	"/api/v1/inventory",
	"/api/v1/orders",
	"/api/v1/patients",
}

var queryTypes = []string{"SELECT", "INSERT", "UPDATE", "DELETE", "JOIN"}

var webPages = []string{
	"/", "/prescriptions", "/medications", "/inventory",
	"/orders", "/patients", "/reports", "/admin",
}

var clickstreamTypes = []string{
	"click", "scroll", "form_submit", "search",
	"navigation", "download", "print",
}
