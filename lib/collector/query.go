// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package collector

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/bureau-foundation/fleetwatch/lib/eventstore"
	"github.com/bureau-foundation/fleetwatch/lib/schema/telemetry"
	"github.com/bureau-foundation/fleetwatch/lib/stats"
)

func (c *Collector) handleApplications(writer http.ResponseWriter, request *http.Request) {
	applications := c.registry.List()
	c.respond(writer, request, http.StatusOK, telemetry.ApplicationsResponse{
		Applications: applications,
		Count:        len(applications),
		Timestamp:    c.clock.Now().UTC(),
	})
}

// handleEvents returns the most recent stored events, newest first,
// filtered by the optional severity and event_type query parameters.
func (c *Collector) handleEvents(writer http.ResponseWriter, request *http.Request) {
	values := request.URL.Query()

	limit, err := c.parseLimit(values.Get("limit"))
	if err != nil {
		c.reject(writer, request, http.StatusBadRequest, "bad_query", err.Error())
		return
	}

	filter := eventstore.Filter{EventType: values.Get("event_type")}
	if severity := values.Get("severity"); severity != "" {
		filter.Severity = telemetry.Severity(strings.ToLower(severity))
	}

	events, matched := c.store.Query(filter, limit)
	if events == nil {
		events = []telemetry.Event{}
	}
	c.respond(writer, request, http.StatusOK, telemetry.EventsResponse{
		Events:      events,
		Count:       matched,
		TotalEvents: c.store.TotalCount(),
		Timestamp:   c.clock.Now().UTC(),
	})
}

// parseLimit applies the default and caps the limit at the store's
// capacity, since no query can return more than that.
func (c *Collector) parseLimit(raw string) (int, error) {
	if raw == "" {
		return min(telemetry.DefaultEventLimit, c.store.Capacity()), nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, fmt.Errorf("limit must be a positive integer, got %q", raw)
	}
	return min(limit, c.store.Capacity()), nil
}

func (c *Collector) handleStats(writer http.ResponseWriter, request *http.Request) {
	report := stats.Compute(c.registry, c.store, c.clock.Now().UTC())
	c.respond(writer, request, http.StatusOK, report)
}
