// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock lets producer loops and collector timestamps run
// against an injected time source. Services use Real; tests use Fake
// and drive ticks with Advance.
package clock

import "time"

// Clock is the subset of the time package the fleet code depends on.
// Anything that stamps a timestamp or waits on a tick takes a Clock
// instead of calling time.Now or time.NewTicker.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// NewTicker returns a Ticker delivering ticks every d. Panics if
	// d <= 0, matching time.NewTicker.
	NewTicker(d time.Duration) *Ticker
}

// Ticker delivers periodic ticks on C. C has capacity 1: a consumer
// that falls behind loses ticks instead of queueing them.
type Ticker struct {
	C <-chan time.Time

	stop func()
}

// Stop turns off the ticker. C is not closed.
func (t *Ticker) Stop() { t.stop() }
