// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package collector

import (
	"net/http"

	"github.com/bureau-foundation/fleetwatch/lib/schema/telemetry"
)

func (c *Collector) handleHealth(writer http.ResponseWriter, request *http.Request) {
	c.respond(writer, request, http.StatusOK, telemetry.HealthResponse{
		Status:    "healthy",
		Service:   ServiceName,
		Version:   c.version,
		Timestamp: c.clock.Now().UTC(),
	})
}

// handleReady reports ready as soon as the handler is serving; the
// registry may legitimately be empty.
func (c *Collector) handleReady(writer http.ResponseWriter, request *http.Request) {
	c.respond(writer, request, http.StatusOK, telemetry.ReadyResponse{
		Status:         "ready",
		RegisteredApps: c.registry.Len(),
	})
}
