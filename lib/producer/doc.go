// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package producer implements the synthetic telemetry producer agent.
//
// An [Agent] registers its identity with the collector once, then on
// every tick samples its domain's metrics profile into Prometheus
// collectors and, with a configured probability, generates one anomaly
// event and submits it. Ticks run sequentially on the agent's own
// goroutine. Failures inside a tick are logged and counted, never
// retried and never propagated: the agent keeps ticking until its
// context is cancelled.
//
// The collector side is abstracted behind [Registrar] and [Sink], which
// collectorclient.Client satisfies.
package producer
