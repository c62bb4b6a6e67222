// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Fleetwatch-collector is the central telemetry collector. It accepts
// producer registrations and security events over HTTP, keeps the most
// recent events in a bounded in-memory store, and answers queries for
// registered applications, filtered events, and aggregate statistics.
//
// Every /api/ route requires the configured bearer token. /health,
// /ready, and /metrics are open so orchestrator probes and Prometheus
// scrapers need no credentials.
//
// Configuration comes from the file named by --config, or by the
// FLEETWATCH_CONFIG environment variable when the flag is absent. Only
// the log and collector sections are read.
package main
