// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import "github.com/google/uuid"

// NewEventID returns a random (version 4) UUID string for a newly
// ingested event.
func NewEventID() string {
	return uuid.NewString()
}
