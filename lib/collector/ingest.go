// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package collector

import (
	"errors"
	"net/http"

	"github.com/bureau-foundation/fleetwatch/lib/schema/telemetry"
)

// handleRegister records or replaces a producer registration. The
// operation is idempotent per instance_id: a second registration with
// the same id overwrites the first and does not grow the registry.
func (c *Collector) handleRegister(writer http.ResponseWriter, request *http.Request) {
	var registration telemetry.Registration
	if err := c.decodeBody(writer, request, &registration); err != nil {
		c.failRequest(writer, request, err)
		return
	}
	if registration.InstanceID == "" {
		c.failRequest(writer, request, &requestError{
			status: http.StatusBadRequest,
			reason: "bad_body",
			err:    errors.New("registration requires instance_id"),
		})
		return
	}

	now := c.clock.Now().UTC()
	if registration.RegisteredAt.IsZero() {
		registration.RegisteredAt = now
	}

	created := c.registry.Upsert(registration)
	c.metrics.registrations.WithLabelValues(labelValue(string(registration.AppType))).Inc()
	c.metrics.setActive(c.registry.CountsByType())

	c.logger.Info("application registered",
		"instance_id", registration.InstanceID,
		"app_name", registration.AppName,
		"app_type", registration.AppType,
		"pod_name", registration.PodName,
		"created", created,
	)

	c.respond(writer, request, http.StatusOK, telemetry.RegisterResponse{
		Status:     "registered",
		InstanceID: registration.InstanceID,
		Timestamp:  now,
	})
}

// handleSubmitEvent normalizes one event, stamps received_at and a
// server-assigned event_id, and appends it to the store.
func (c *Collector) handleSubmitEvent(writer http.ResponseWriter, request *http.Request) {
	var event telemetry.Event
	if err := c.decodeBody(writer, request, &event); err != nil {
		c.failRequest(writer, request, err)
		return
	}

	now := c.clock.Now().UTC()
	event = event.Normalize(now)
	event.ReceivedAt = now
	event.EventID = telemetry.NewEventID()

	if evicted := c.store.Append(event); evicted {
		c.logger.Debug("event store full, evicted oldest event", "capacity", c.store.Capacity())
	}
	c.metrics.events.WithLabelValues(
		labelValue(event.Field(telemetry.FieldAppType)),
		event.EventType,
		string(event.Severity),
	).Inc()

	c.logger.Info("event received",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"severity", event.Severity,
		"app_name", event.Field(telemetry.FieldAppName),
		"pod_name", event.Field(telemetry.FieldPodName),
	)

	c.respond(writer, request, http.StatusOK, telemetry.EventAccepted{
		Status:    "received",
		EventID:   event.EventID,
		Timestamp: now,
	})
}

// labelValue substitutes "unknown" for an empty metric label.
func labelValue(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
