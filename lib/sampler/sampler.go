// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sampler produces synthetic operational metrics for simulated
// producers: one Snapshot per tick, every value drawn independently
// from a fixed per-domain range.
//
// Profiles are tables. A gauge is a single value per tick (active
// sessions, error rate); a series is a labelled family (requests by
// endpoint, query duration by query type) whose Kind says whether its
// values are per-tick counts or durations in seconds. The producer
// folds counts into Prometheus counters and durations into histograms.
package sampler

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/bureau-foundation/fleetwatch/lib/clock"
	"github.com/bureau-foundation/fleetwatch/lib/schema/telemetry"
)

// Kind says how a series' values are interpreted.
type Kind uint8

const (
	// Count values are event counts observed during one tick.
	Count Kind = iota

	// Duration values are latencies in seconds.
	Duration
)

// Range is an inclusive lower and exclusive upper bound.
type Range struct {
	Min, Max float64
}

// GaugeSpec describes one gauge in a profile.
type GaugeSpec struct {
	Name  string
	Range Range

	// Integer rounds the value down to a whole number.
	Integer bool

	// Decimals rounds non-integer values; zero keeps full precision.
	Decimals int
}

// SeriesSpec describes one labelled family in a profile.
type SeriesSpec struct {
	Name  string
	Label string
	Kind  Kind
	Keys  []string
	Range Range

	// Overrides replaces Range for specific keys.
	Overrides map[string]Range
}

// Profile is the full metrics shape of a domain.
type Profile struct {
	Gauges []GaugeSpec
	Series []SeriesSpec
}

// Series is one sampled family.
type Series struct {
	Name   string
	Label  string
	Kind   Kind
	Values map[string]float64
}

// Snapshot is one tick's metrics. It is folded into exposition
// collectors and then discarded.
type Snapshot struct {
	Domain    telemetry.AppType
	Timestamp time.Time
	Gauges    map[string]float64
	Series    []Series
}

// Sampler draws snapshots for one domain. Not safe for concurrent use;
// each producer agent owns one.
type Sampler struct {
	domain  telemetry.AppType
	profile Profile
	random  *rand.Rand
	clock   clock.Clock
}

// New returns a Sampler for domain. An unknown domain has an empty
// profile and yields empty snapshots. Panics if random or clk is nil.
func New(domain telemetry.AppType, random *rand.Rand, clk clock.Clock) *Sampler {
	if random == nil {
		panic("sampler: random source is required")
	}
	if clk == nil {
		panic("sampler: clock is required")
	}
	return &Sampler{domain: domain, profile: profiles[domain], random: random, clock: clk}
}

// Profile returns the profile the sampler draws from.
func (s *Sampler) Profile() Profile {
	return s.profile
}

// Sample draws one snapshot.
func (s *Sampler) Sample() Snapshot {
	snapshot := Snapshot{
		Domain:    s.domain,
		Timestamp: s.clock.Now(),
		Gauges:    make(map[string]float64, len(s.profile.Gauges)),
		Series:    make([]Series, 0, len(s.profile.Series)),
	}

	for _, gauge := range s.profile.Gauges {
		value := s.uniform(gauge.Range)
		switch {
		case gauge.Integer:
			value = math.Floor(value)
		case gauge.Decimals > 0:
			scale := math.Pow(10, float64(gauge.Decimals))
			value = math.Round(value*scale) / scale
		}
		snapshot.Gauges[gauge.Name] = value
	}

	for _, spec := range s.profile.Series {
		series := Series{
			Name:   spec.Name,
			Label:  spec.Label,
			Kind:   spec.Kind,
			Values: make(map[string]float64, len(spec.Keys)),
		}
		for _, key := range spec.Keys {
			bounds := spec.Range
			if override, ok := spec.Overrides[key]; ok {
				bounds = override
			}
			value := s.uniform(bounds)
			if spec.Kind == Count {
				value = math.Floor(value)
			}
			series.Values[key] = value
		}
		snapshot.Series = append(snapshot.Series, series)
	}

	return snapshot
}

func (s *Sampler) uniform(bounds Range) float64 {
	return bounds.Min + s.random.Float64()*(bounds.Max-bounds.Min)
}
