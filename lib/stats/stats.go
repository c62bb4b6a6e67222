// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package stats computes the collector's aggregate report. Every call
// scans the registry and the event store from scratch; the store is
// bounded, so the scan is too.
package stats

import (
	"strings"
	"time"

	"github.com/bureau-foundation/fleetwatch/lib/schema/telemetry"
)

// Registrations is the read side of the collector registry.
type Registrations interface {
	List() []telemetry.Registration
}

// Events is the read side of the collector event store.
type Events interface {
	Snapshot() []telemetry.Event
	Evicted() uint64
}

// Compute builds the aggregate report as of now.
func Compute(registrations Registrations, events Events, now time.Time) telemetry.Stats {
	registered := registrations.List()
	stored := events.Snapshot()
	attribute := NewAttributor(registered)

	report := telemetry.Stats{
		TotalEvents:         len(stored),
		TotalApplications:   len(registered),
		EventsByType:        make(map[string]int),
		EventsBySeverity:    make(map[string]int),
		EventsByApplication: make(map[string]int),
		ApplicationsByType:  countByType(registered),
		EvictedEvents:       events.Evicted(),
		GeneratedAt:         now,
	}

	for i := range stored {
		event := &stored[i]
		report.EventsByType[event.EventType]++
		report.EventsBySeverity[string(event.Severity)]++
		if appName, ok := attribute.AppName(event); ok {
			report.EventsByApplication[appName]++
		}
	}

	return report
}

// countByType counts registered per app type, from the same snapshot
// as the application total. Known types are always present.
func countByType(registered []telemetry.Registration) map[string]int {
	counts := make(map[string]int, len(telemetry.AppTypes))
	for _, appType := range telemetry.AppTypes {
		counts[string(appType)] = 0
	}
	for _, registration := range registered {
		counts[string(registration.AppType)]++
	}
	return counts
}

// Attributor maps events to the registered application that most
// plausibly emitted them. An event belongs to the first registration,
// in instance ID order, whose pod name is a prefix of the event's
// pod_name field. This is an approximation for dashboards, not a key:
// events without a pod_name, or whose pod_name matches nothing, are
// left unattributed.
type Attributor struct {
	candidates []telemetry.Registration
}

// NewAttributor builds an Attributor over registrations, which must be
// in instance ID order (as Registry.List returns them). Registrations
// with an empty pod name are skipped since they would match every
// event.
func NewAttributor(registrations []telemetry.Registration) *Attributor {
	candidates := make([]telemetry.Registration, 0, len(registrations))
	for _, registration := range registrations {
		if registration.PodName != "" {
			candidates = append(candidates, registration)
		}
	}
	return &Attributor{candidates: candidates}
}

// AppName returns the app name event is attributed to.
func (a *Attributor) AppName(event *telemetry.Event) (string, bool) {
	podName := event.Field(telemetry.FieldPodName)
	if podName == "" {
		return "", false
	}
	for _, candidate := range a.candidates {
		if strings.HasPrefix(podName, candidate.PodName) {
			return candidate.AppName, true
		}
	}
	return "", false
}
