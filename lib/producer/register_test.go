// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package producer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/fleetwatch/lib/schema/telemetry"
)

type registrarFunc func(ctx context.Context, registration telemetry.Registration) error

func (f registrarFunc) Register(ctx context.Context, registration telemetry.Registration) error {
	return f(ctx, registration)
}

func TestRegisterReportsReason(t *testing.T) {
	reason := errors.New("403 Forbidden: invalid bearer token")
	err := Register(context.Background(), &fakeRegistrar{err: reason}, testRegistration(telemetry.AppTypeAPI), time.Second)
	if !errors.Is(err, reason) {
		t.Fatalf("expected error wrapping %v, got %v", reason, err)
	}
	if !strings.Contains(err.Error(), "user-service-7d9f-1") {
		t.Fatalf("expected instance ID in error, got %v", err)
	}
}

func TestRegisterSucceeds(t *testing.T) {
	registrar := &fakeRegistrar{}
	if err := Register(context.Background(), registrar, testRegistration(telemetry.AppTypeAPI), time.Second); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if registrar.count() != 1 {
		t.Fatalf("expected 1 registration, got %d", registrar.count())
	}
}

func TestRegisterHonorsTimeout(t *testing.T) {
	blocking := registrarFunc(func(ctx context.Context, _ telemetry.Registration) error {
		<-ctx.Done()
		return ctx.Err()
	})
	err := Register(context.Background(), blocking, testRegistration(telemetry.AppTypeAPI), 10*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestRegisterRecoversPanic(t *testing.T) {
	panicking := registrarFunc(func(context.Context, telemetry.Registration) error {
		panic("nil transport")
	})
	err := Register(context.Background(), panicking, testRegistration(telemetry.AppTypeAPI), time.Second)
	if err == nil || !strings.Contains(err.Error(), "panicked") {
		t.Fatalf("expected panic reported as error, got %v", err)
	}
}
