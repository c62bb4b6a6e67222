// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package registry tracks the producer instances that have announced
// themselves to the collector. Registrations are keyed by instance ID
// and live until the collector restarts; there is no expiry.
package registry

import (
	"sort"
	"sync"

	"github.com/bureau-foundation/fleetwatch/lib/schema/telemetry"
)

// Registry is the collector's table of live registrations.
//
// Thread-safe: all methods may be called concurrently.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]telemetry.Registration
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{entries: make(map[string]telemetry.Registration)}
}

// Upsert stores registration under its InstanceID, replacing any
// previous record wholesale. It reports whether the instance was new.
func (r *Registry) Upsert(registration telemetry.Registration) (created bool) {
	registration.Endpoints = append([]string(nil), registration.Endpoints...)

	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.entries[registration.InstanceID]
	r.entries[registration.InstanceID] = registration
	return !exists
}

// Get returns the registration for instanceID.
func (r *Registry) Get(instanceID string) (telemetry.Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	registration, ok := r.entries[instanceID]
	return registration, ok
}

// List returns a snapshot of every registration sorted by InstanceID.
func (r *Registry) List() []telemetry.Registration {
	r.mu.RLock()
	list := make([]telemetry.Registration, 0, len(r.entries))
	for _, registration := range r.entries {
		list = append(list, registration)
	}
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		return list[i].InstanceID < list[j].InstanceID
	})
	return list
}

// Len returns the number of registrations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// CountBy returns the number of registrations with the given app type.
func (r *Registry) CountBy(appType telemetry.AppType) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, registration := range r.entries {
		if registration.AppType == appType {
			count++
		}
	}
	return count
}

// CountsByType returns registration counts keyed by app type. The known
// app types are always present, with zero when none are registered.
func (r *Registry) CountsByType() map[string]int {
	counts := make(map[string]int, len(telemetry.AppTypes))
	for _, appType := range telemetry.AppTypes {
		counts[string(appType)] = 0
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, registration := range r.entries {
		counts[string(registration.AppType)]++
	}
	return counts
}
