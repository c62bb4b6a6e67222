// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"encoding/json"
	"time"

	"github.com/bureau-foundation/fleetwatch/lib/codec"
)

// Reserved keys of the flat event object.
const (
	KeyEventType  = "event_type"
	KeySeverity   = "severity"
	KeyTimestamp  = "timestamp"
	KeyReceivedAt = "received_at"
	KeyEventID    = "event_id"
)

// Source identity fields producers stamp on every event. The collector
// reads FieldPodName to attribute events to registered applications.
const (
	FieldAppName    = "app_name"
	FieldAppType    = "app_type"
	FieldPodName    = "pod_name"
	FieldInstanceID = "instance_id"
	FieldNamespace  = "namespace"
)

// UnknownEventType replaces a missing event_type at ingestion.
const UnknownEventType = "unknown"

// Event is one anomaly record. Fields holds every key outside the
// reserved set; values are JSON-compatible (string, bool, float64 or
// int, []any, []string, map[string]any).
//
// An Event is treated as immutable once it has been appended to a
// store. Fields is shared between copies.
type Event struct {
	EventType  string
	Severity   Severity
	Timestamp  time.Time
	ReceivedAt time.Time
	EventID    string
	Fields     map[string]any
}

// Field returns the string value of an extension field, or "" when the
// field is absent or not a string.
func (e Event) Field(key string) string {
	value, _ := e.Fields[key].(string)
	return value
}

// Normalize returns a copy of e that satisfies the stored-event
// invariants: non-empty EventType, a severity from the enum (possibly
// SeverityUnknown), and a non-zero Timestamp (now when the producer
// sent none).
func (e Event) Normalize(now time.Time) Event {
	if e.EventType == "" {
		e.EventType = UnknownEventType
	}
	e.Severity = NormalizeSeverity(string(e.Severity))
	if e.Timestamp.IsZero() {
		e.Timestamp = now
	}
	return e
}

// MarshalJSON writes the event as one flat object.
func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.flatten())
}

// UnmarshalJSON reads a flat event object. Reserved keys with the wrong
// type are treated as absent; Normalize fills them in later.
func (e *Event) UnmarshalJSON(data []byte) error {
	var object map[string]any
	if err := json.Unmarshal(data, &object); err != nil {
		return err
	}
	e.unflatten(object)
	return nil
}

// MarshalCBOR writes the event as one flat CBOR map.
func (e Event) MarshalCBOR() ([]byte, error) {
	return codec.MarshalCBOR(e.flatten())
}

// UnmarshalCBOR reads a flat CBOR map.
func (e *Event) UnmarshalCBOR(data []byte) error {
	var object map[string]any
	if err := codec.UnmarshalCBOR(data, &object); err != nil {
		return err
	}
	e.unflatten(object)
	return nil
}

func (e Event) flatten() map[string]any {
	object := make(map[string]any, len(e.Fields)+5)
	for key, value := range e.Fields {
		object[key] = value
	}
	object[KeyEventType] = e.EventType
	object[KeySeverity] = string(e.Severity)
	if !e.Timestamp.IsZero() {
		object[KeyTimestamp] = e.Timestamp.UTC().Format(time.RFC3339Nano)
	}
	if !e.ReceivedAt.IsZero() {
		object[KeyReceivedAt] = e.ReceivedAt.UTC().Format(time.RFC3339Nano)
	}
	if e.EventID != "" {
		object[KeyEventID] = e.EventID
	}
	return object
}

func (e *Event) unflatten(object map[string]any) {
	*e = Event{}
	e.EventType, _ = object[KeyEventType].(string)
	if severity, ok := object[KeySeverity].(string); ok {
		e.Severity = Severity(severity)
	}
	e.Timestamp = parseTimestamp(object[KeyTimestamp])
	e.ReceivedAt = parseTimestamp(object[KeyReceivedAt])
	e.EventID, _ = object[KeyEventID].(string)

	for key, value := range object {
		switch key {
		case KeyEventType, KeySeverity, KeyTimestamp, KeyReceivedAt, KeyEventID:
			continue
		}
		if e.Fields == nil {
			e.Fields = make(map[string]any, len(object))
		}
		e.Fields[key] = value
	}
}

// timestampLayouts are tried in order. The zone-less layout accepts
// the naive UTC ISO strings older producers send.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

func parseTimestamp(value any) time.Time {
	switch typed := value.(type) {
	case string:
		for _, layout := range timestampLayouts {
			if parsed, err := time.Parse(layout, typed); err == nil {
				return parsed.UTC()
			}
		}
	case time.Time:
		return typed.UTC()
	}
	return time.Time{}
}
