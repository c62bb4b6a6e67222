// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package eventstore holds the collector's ingested anomaly events in a
// fixed-capacity ring. When the ring is full, appending overwrites the
// oldest event: producers never see backpressure, old telemetry is lost
// instead.
package eventstore

import (
	"fmt"
	"sync"

	"github.com/bureau-foundation/fleetwatch/lib/schema/telemetry"
)

// DefaultCapacity is the number of events a collector retains unless
// configured otherwise.
const DefaultCapacity = 10000

// Filter selects events by exact match. Empty fields match everything;
// set fields are combined with AND.
type Filter struct {
	Severity  telemetry.Severity
	EventType string
}

func (f Filter) matches(event *telemetry.Event) bool {
	if f.Severity != "" && event.Severity != f.Severity {
		return false
	}
	if f.EventType != "" && event.EventType != f.EventType {
		return false
	}
	return true
}

// Store is a bounded FIFO of events. Append is O(1); Query and Snapshot
// are O(n) in the number of stored events.
//
// Thread-safe: all methods may be called concurrently.
type Store struct {
	mu       sync.Mutex
	ring     []telemetry.Event
	head     int // index of the oldest event
	size     int
	appended uint64
	evicted  uint64
}

// New returns an empty Store holding at most capacity events. Panics if
// capacity is not positive.
func New(capacity int) *Store {
	if capacity <= 0 {
		panic(fmt.Sprintf("eventstore: capacity must be positive, got %d", capacity))
	}
	return &Store{ring: make([]telemetry.Event, capacity)}
}

// Append inserts event as the newest entry. When the store is full the
// oldest entry is evicted first; the return value reports whether that
// happened.
func (s *Store) Append(event telemetry.Event) (evicted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	capacity := len(s.ring)
	if s.size == capacity {
		s.ring[s.head] = event
		s.head = (s.head + 1) % capacity
		s.evicted++
		evicted = true
	} else {
		s.ring[(s.head+s.size)%capacity] = event
		s.size++
	}
	s.appended++
	return evicted
}

// Query returns up to limit events matching filter, most recently
// appended first. A limit <= 0 returns every match. The second result
// is the number of stored events matching filter, regardless of limit.
func (s *Store) Query(filter Filter, limit int) ([]telemetry.Event, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var results []telemetry.Event
	matched := 0
	capacity := len(s.ring)
	for offset := s.size - 1; offset >= 0; offset-- {
		event := &s.ring[(s.head+offset)%capacity]
		if !filter.matches(event) {
			continue
		}
		matched++
		if limit <= 0 || len(results) < limit {
			results = append(results, *event)
		}
	}
	return results, matched
}

// Snapshot returns every stored event in append order (oldest first).
func (s *Store) Snapshot() []telemetry.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := make([]telemetry.Event, s.size)
	capacity := len(s.ring)
	for offset := range s.size {
		events[offset] = s.ring[(s.head+offset)%capacity]
	}
	return events
}

// TotalCount returns the number of stored events.
func (s *Store) TotalCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

// Capacity returns the maximum number of stored events.
func (s *Store) Capacity() int {
	return len(s.ring)
}

// Appended returns the number of events appended since creation,
// including those since evicted.
func (s *Store) Appended() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appended
}

// Evicted returns the number of events dropped to stay within capacity
// since creation.
func (s *Store) Evicted() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evicted
}
