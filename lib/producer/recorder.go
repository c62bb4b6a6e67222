// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package producer

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bureau-foundation/fleetwatch/lib/sampler"
	"github.com/bureau-foundation/fleetwatch/lib/schema/telemetry"
)

// Recorder holds the Prometheus collectors an agent folds its metric
// snapshots into. Collectors are created up front from the sampler's
// profile, so a snapshot naming an unknown family is an error rather
// than a new registration.
//
// Metric names are <prefix>_<gauge>, <prefix>_<series>_total for count
// series, and <prefix>_<series>_seconds for duration series. Anomaly
// events are counted in <prefix>_security_events_total.
type Recorder struct {
	gauges     map[string]prometheus.Gauge
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
	events     *prometheus.CounterVec
}

// NewRecorder creates and registers the collectors for profile.
// Returns an error if any collector cannot be registered (an invalid
// prefix or a name already taken in registerer).
func NewRecorder(registerer prometheus.Registerer, prefix string, profile sampler.Profile) (*Recorder, error) {
	r := &Recorder{
		gauges:     make(map[string]prometheus.Gauge, len(profile.Gauges)),
		counters:   make(map[string]*prometheus.CounterVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}

	var collectors []prometheus.Collector
	for _, spec := range profile.Gauges {
		gauge := prometheus.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "_" + spec.Name,
			Help: fmt.Sprintf("Sampled %s.", spec.Name),
		})
		r.gauges[spec.Name] = gauge
		collectors = append(collectors, gauge)
	}
	for _, spec := range profile.Series {
		switch spec.Kind {
		case sampler.Count:
			counter := prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: prefix + "_" + spec.Name + "_total",
				Help: fmt.Sprintf("Sampled %s, by %s.", spec.Name, spec.Label),
			}, []string{spec.Label})
			r.counters[spec.Name] = counter
			collectors = append(collectors, counter)
		case sampler.Duration:
			histogram := prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    prefix + "_" + spec.Name + "_seconds",
				Help:    fmt.Sprintf("Sampled %s in seconds, by %s.", spec.Name, spec.Label),
				Buckets: prometheus.DefBuckets,
			}, []string{spec.Label})
			r.histograms[spec.Name] = histogram
			collectors = append(collectors, histogram)
		}
	}
	r.events = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: prefix + "_security_events_total",
		Help: "Anomaly events generated, by event type and severity.",
	}, []string{"event_type", "severity"})
	collectors = append(collectors, r.events)

	for _, collector := range collectors {
		if err := registerer.Register(collector); err != nil {
			return nil, fmt.Errorf("registering metrics with prefix %q: %w", prefix, err)
		}
	}
	return r, nil
}

// Record folds snapshot into the collectors: gauges are set, count
// series are added to their counters, and duration series are observed
// by their histograms. Every value is applied even when one fails; the
// first error is returned.
func (r *Recorder) Record(snapshot sampler.Snapshot) error {
	var first error
	fail := func(err error) {
		if first == nil {
			first = err
		}
	}

	for name, value := range snapshot.Gauges {
		gauge, ok := r.gauges[name]
		if !ok {
			fail(fmt.Errorf("unknown gauge %q", name))
			continue
		}
		gauge.Set(value)
	}

	for _, series := range snapshot.Series {
		switch series.Kind {
		case sampler.Count:
			counter, ok := r.counters[series.Name]
			if !ok {
				fail(fmt.Errorf("unknown count series %q", series.Name))
				continue
			}
			for key, value := range series.Values {
				if value < 0 {
					fail(fmt.Errorf("series %q: negative count %v for %q", series.Name, value, key))
					continue
				}
				metric, err := counter.GetMetricWithLabelValues(key)
				if err != nil {
					fail(fmt.Errorf("series %q: %w", series.Name, err))
					continue
				}
				metric.Add(value)
			}
		case sampler.Duration:
			histogram, ok := r.histograms[series.Name]
			if !ok {
				fail(fmt.Errorf("unknown duration series %q", series.Name))
				continue
			}
			for key, value := range series.Values {
				metric, err := histogram.GetMetricWithLabelValues(key)
				if err != nil {
					fail(fmt.Errorf("series %q: %w", series.Name, err))
					continue
				}
				metric.Observe(value)
			}
		default:
			fail(fmt.Errorf("series %q: unknown kind %d", series.Name, series.Kind))
		}
	}
	return first
}

// CountEvent increments the security event counter for event.
func (r *Recorder) CountEvent(event telemetry.Event) {
	r.events.WithLabelValues(event.EventType, string(event.Severity)).Inc()
}
