// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import "time"

// DefaultEventLimit is the number of events returned by an events query
// that does not set a limit.
const DefaultEventLimit = 100

// EventQuery selects events from the collector. Zero-valued fields are
// not applied as filters; set filters are combined with AND.
type EventQuery struct {
	Severity  string
	EventType string

	// Limit caps the number of events returned, most recent first.
	// Zero means DefaultEventLimit.
	Limit int
}

// RegisterResponse acknowledges POST /api/register.
type RegisterResponse struct {
	Status     string    `json:"status"`
	InstanceID string    `json:"instance_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// EventAccepted acknowledges POST /api/events.
type EventAccepted struct {
	Status    string    `json:"status"`
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
}

// ApplicationsResponse is the body of GET /api/applications.
type ApplicationsResponse struct {
	Applications []Registration `json:"applications"`
	Count        int            `json:"count"`
	Timestamp    time.Time      `json:"timestamp"`
}

// EventsResponse is the body of GET /api/events. Count is the number of
// stored events matching the filters, which may exceed len(Events) when
// the limit truncated the result. TotalEvents ignores the filters.
type EventsResponse struct {
	Events      []Event   `json:"events"`
	Count       int       `json:"count"`
	TotalEvents int       `json:"total_events"`
	Timestamp   time.Time `json:"timestamp"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadyResponse is the body of GET /ready.
type ReadyResponse struct {
	Status         string `json:"status"`
	RegisteredApps int    `json:"registered_apps"`
}

// ErrorResponse is the body of every non-2xx collector response.
type ErrorResponse struct {
	Error string `json:"error"`
}
