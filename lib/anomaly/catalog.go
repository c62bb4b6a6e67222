// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package anomaly synthesizes security-anomaly events for simulated
// producers.
//
// Each domain (api, database, webui) has a catalog: a table of Kinds,
// each naming an event type, its severity, and a constructor that fills
// the event's fields from fixed value pools. Adding an anomaly is one
// table row plus one constructor. Constructors sample every field
// independently; no cross-field consistency is attempted.
//
// A Generator owns its random source, so two producers in one process
// never share state and a seeded Generator is reproducible.
package anomaly

import (
	"math/rand/v2"

	"github.com/bureau-foundation/fleetwatch/lib/clock"
	"github.com/bureau-foundation/fleetwatch/lib/schema/telemetry"
)

// DefaultProbability is the per-tick emission probability when a
// producer does not configure one.
const DefaultProbability = 0.1

// Kind is one catalog row.
type Kind struct {
	Name     string
	Severity telemetry.Severity
	Build    func(draw *Draw) map[string]any
}

var catalogs = map[telemetry.AppType][]Kind{
	telemetry.AppTypeAPI:      apiKinds,
	telemetry.AppTypeDatabase: databaseKinds,
	telemetry.AppTypeWebUI:    webUIKinds,
}

// Kinds returns the catalog for a domain, or nil for an unknown domain.
// The returned slice must not be modified.
func Kinds(domain telemetry.AppType) []Kind {
	return catalogs[domain]
}

// UnknownDomainEvent is the event type Generate emits for a domain with
// no catalog.
const UnknownDomainEvent = "unknown_anomaly"

// Generator rolls emission trials and builds events. Not safe for
// concurrent use: each producer agent owns one and drives it from its
// tick goroutine.
type Generator struct {
	random *rand.Rand
	draw   *Draw
	clock  clock.Clock
}

// NewGenerator returns a Generator drawing from random and stamping
// events with clk. Panics if either is nil.
func NewGenerator(random *rand.Rand, clk clock.Clock) *Generator {
	if random == nil {
		panic("anomaly: random source is required")
	}
	if clk == nil {
		panic("anomaly: clock is required")
	}
	return &Generator{random: random, draw: &Draw{random: random}, clock: clk}
}

// ShouldFire is one Bernoulli trial with success probability p. Values
// outside [0, 1] are clamped.
func (g *Generator) ShouldFire(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return g.random.Float64() < p
}

// Generate picks a kind uniformly from the domain's catalog and builds
// an event from it. The event carries no source identity; the caller
// stamps that.
func (g *Generator) Generate(domain telemetry.AppType) telemetry.Event {
	kinds := Kinds(domain)
	if len(kinds) == 0 {
		return telemetry.Event{
			EventType: UnknownDomainEvent,
			Severity:  telemetry.SeverityLow,
			Timestamp: g.clock.Now(),
			Fields:    map[string]any{"domain": string(domain)},
		}
	}

	kind := kinds[g.random.IntN(len(kinds))]
	return telemetry.Event{
		EventType: kind.Name,
		Severity:  kind.Severity,
		Timestamp: g.clock.Now(),
		Fields:    kind.Build(g.draw),
	}
}
