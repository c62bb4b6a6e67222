// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package collector

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bureau-foundation/fleetwatch/lib/eventstore"
)

const metricsNamespace = "fleetwatch_collector"

type metrics struct {
	registrations *prometheus.CounterVec
	events        *prometheus.CounterVec
	rejected      *prometheus.CounterVec
	active        *prometheus.GaugeVec
}

func newMetrics(registerer prometheus.Registerer, store *eventstore.Store) (*metrics, error) {
	m := &metrics{
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "registrations_total",
			Help:      "Registration requests accepted, by app type.",
		}, []string{"app_type"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "events_total",
			Help:      "Events ingested, by app type, event type, and severity.",
		}, []string{"app_type", "event_type", "severity"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rejected_requests_total",
			Help:      "Requests refused before reaching the registry or store, by reason.",
		}, []string{"reason"}),
		active: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "active_applications",
			Help:      "Registered applications, by app type.",
		}, []string{"app_type"}),
	}

	stored := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "stored_events",
		Help:      "Events currently held in the store.",
	}, func() float64 { return float64(store.TotalCount()) })
	evicted := prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "evicted_events_total",
		Help:      "Events dropped from the store to stay within capacity.",
	}, func() float64 { return float64(store.Evicted()) })

	for _, collector := range []prometheus.Collector{m.registrations, m.events, m.rejected, m.active, stored, evicted} {
		if err := registerer.Register(collector); err != nil {
			return nil, fmt.Errorf("registering collector metrics: %w", err)
		}
	}
	return m, nil
}

func (m *metrics) setActive(counts map[string]int) {
	for appType, count := range counts {
		m.active.WithLabelValues(appType).Set(float64(count))
	}
}
