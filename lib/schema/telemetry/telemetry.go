// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"fmt"
	"strings"
	"time"
)

// AppType is the domain of a producer. It selects the anomaly catalog
// and the metrics profile the producer runs with.
type AppType string

const (
	AppTypeAPI      AppType = "api"
	AppTypeDatabase AppType = "database"
	AppTypeWebUI    AppType = "webui"
)

// AppTypes lists the known domains in display order.
var AppTypes = []AppType{AppTypeAPI, AppTypeDatabase, AppTypeWebUI}

// ParseAppType parses a domain name, ignoring case and surrounding
// whitespace.
func ParseAppType(name string) (AppType, error) {
	candidate := AppType(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range AppTypes {
		if candidate == known {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown app type %q (want api, database, or webui)", name)
}

// Severity grades an anomaly event.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"

	// SeverityUnknown replaces a missing or unrecognized severity at
	// ingestion. Producers never emit it.
	SeverityUnknown Severity = "unknown"
)

// NormalizeSeverity maps free-form input onto the severity enum.
func NormalizeSeverity(value string) Severity {
	switch severity := Severity(strings.ToLower(strings.TrimSpace(value))); severity {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return severity
	default:
		return SeverityUnknown
	}
}

// Registration announces a producer instance to the collector. The
// collector keys registrations by InstanceID; re-registering replaces
// the stored record.
type Registration struct {
	InstanceID   string    `json:"instance_id"`
	AppName      string    `json:"app_name"`
	AppType      AppType   `json:"app_type"`
	Namespace    string    `json:"namespace"`
	PodName      string    `json:"pod_name"`
	NodeName     string    `json:"node_name"`
	IPAddress    string    `json:"ip_address"`
	Endpoints    []string  `json:"endpoints"`
	Version      string    `json:"version"`
	RegisteredAt time.Time `json:"registered_at"`
}

// Stats is the aggregate report computed over the collector's registry
// and event store.
type Stats struct {
	TotalEvents         int            `json:"total_events"`
	TotalApplications   int            `json:"total_applications"`
	EventsByType        map[string]int `json:"events_by_type"`
	EventsBySeverity    map[string]int `json:"events_by_severity"`
	EventsByApplication map[string]int `json:"events_by_application"`
	ApplicationsByType  map[string]int `json:"applications_by_type"`

	// EvictedEvents counts events the store has dropped to stay
	// within capacity since the collector started.
	EvictedEvents uint64    `json:"evicted_events"`
	GeneratedAt   time.Time `json:"generated_at"`
}
