// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package telemetry defines the records exchanged between fleet
// producers and the collector: registrations, anomaly events, the
// aggregate stats report, and the HTTP request and response envelopes
// around them.
//
// Every type uses `json` struct tags. The CBOR codec in lib/codec
// honours the same tags, so each type has one field naming across both
// wire formats.
//
// Event is deliberately open. It has a small required core
// (event_type, severity, timestamp) plus collector-assigned fields
// (event_id, received_at); every other key a producer sends is kept in
// Fields and written back out at the top level, so on the wire an event
// is one flat object.
package telemetry
