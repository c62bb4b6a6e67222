// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package anomaly

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Draw is the set of sampling primitives catalog constructors use.
type Draw struct {
	random *rand.Rand
}

// Choice returns a uniformly chosen element of pool.
func (d *Draw) Choice(pool []string) string {
	return pool[d.random.IntN(len(pool))]
}

// Optional returns nil with the same probability as each element of
// pool, otherwise a uniformly chosen element. It models fields that are
// sometimes absent (null on the wire).
func (d *Draw) Optional(pool []string) any {
	index := d.random.IntN(len(pool) + 1)
	if index == len(pool) {
		return nil
	}
	return pool[index]
}

// Sample returns k distinct positions of pool without replacement,
// where k is uniform in [low, high] and capped at len(pool). Order is
// random.
func (d *Draw) Sample(pool []string, low, high int) []string {
	k := d.Int(low, high)
	if k > len(pool) {
		k = len(pool)
	}
	picked := make([]string, k)
	for i, index := range d.random.Perm(len(pool))[:k] {
		picked[i] = pool[index]
	}
	return picked
}

// Int returns a uniform integer in [low, high].
func (d *Draw) Int(low, high int) int {
	return low + d.random.IntN(high-low+1)
}

// Float returns a uniform float in [low, high).
func (d *Draw) Float(low, high float64) float64 {
	return low + d.random.Float64()*(high-low)
}

// Money returns a uniform amount in [low, high) rounded to cents.
func (d *Draw) Money(low, high float64) float64 {
	return math.Round(d.Float(low, high)*100) / 100
}

// Bool is a fair coin.
func (d *Draw) Bool() bool {
	return d.random.IntN(2) == 1
}

// Chance returns true with probability p.
func (d *Draw) Chance(p float64) bool {
	return d.random.Float64() < p
}

// Tag returns prefix followed by a uniform integer in [low, high], the
// shape of synthetic identifiers such as "RX123456" or "user_42".
func (d *Draw) Tag(prefix string, low, high int) string {
	return fmt.Sprintf("%s%d", prefix, d.Int(low, high))
}

// IPv4 returns a random dotted quad with every octet in [1, 255].
func (d *Draw) IPv4() string {
	return fmt.Sprintf("%d.%d.%d.%d", d.Int(1, 255), d.Int(1, 255), d.Int(1, 255), d.Int(1, 255))
}

// DEANumber returns a synthetic DEA registration number.
func (d *Draw) DEANumber() string {
	return fmt.Sprintf("A%s%d", d.Choice([]string{"B", "F", "M"}), d.Int(1000000, 9999999))
}

// NPI returns a synthetic ten-digit provider identifier.
func (d *Draw) NPI() string {
	return fmt.Sprintf("%d", 1_000_000_000+d.random.Int64N(9_000_000_000))
}
