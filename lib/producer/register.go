// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package producer

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bureau-foundation/fleetwatch/lib/schema/telemetry"
)

// DefaultRegistrationTimeout bounds the one registration attempt.
const DefaultRegistrationTimeout = 10 * time.Second

// Registrar announces a producer to the collector.
type Registrar interface {
	Register(ctx context.Context, registration telemetry.Registration) error
}

// Register performs one registration attempt bounded by timeout. A nil
// error means the collector accepted the registration; otherwise the
// error carries the reason. A panicking registrar is reported as an
// error.
func Register(ctx context.Context, registrar Registrar, registration telemetry.Registration, timeout time.Duration) (err error) {
	if timeout <= 0 {
		timeout = DefaultRegistrationTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("registering %s: registrar panicked: %v", registration.InstanceID, recovered)
		}
	}()

	if err := registrar.Register(ctx, registration); err != nil {
		return fmt.Errorf("registering %s: %w", registration.InstanceID, err)
	}
	return nil
}

// DefaultInstanceID derives an instance ID from the pod name and the
// current process ID.
func DefaultInstanceID(podName string) string {
	return fmt.Sprintf("%s-%d", podName, os.Getpid())
}
