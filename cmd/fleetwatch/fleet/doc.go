// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package fleet implements the fleetwatch CLI commands that query a
// running collector: apps, events, stats, health, and the live top
// view.
//
// Every command accepts --server, --token, and --timeout through
// [CollectorConnection]; the first two default to the FLEETWATCH_SERVER
// and FLEETWATCH_TOKEN environment variables. Commands with tabular
// output also accept --json.
//
// Collector failures are mapped to [cli.ToolError] categories: a
// rejected token is forbidden, a bad filter is validation, and an
// unreachable or overloaded collector is transient.
package fleet
