// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package collector implements the collector's HTTP surface: producer
// registration, event ingestion, and the read-only query endpoints
// (applications, events, stats) plus health, readiness, and Prometheus
// metrics.
//
// Every /api/ route requires a bearer token. Authentication runs
// before the request body is read, so an unauthenticated request never
// touches the registry or the event store. The /health, /ready, and
// /metrics routes are open for load balancers and scrapers.
//
// Request bodies are JSON unless Content-Type is application/cbor, and
// may be compressed with Content-Encoding zstd or lz4. Responses are
// JSON unless the client sends Accept: application/cbor.
package collector
