// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers.
//
// [RequireReceive] and [RequireClosed] wrap the select-with-timeout
// pattern so tests waiting on goroutines never hang and never call
// time.After themselves. Timer-driven code under test uses
// clock.Fake; these helpers are the only wall-clock timeouts in the
// test suite.
//
// Helpers call t.Fatalf on failure rather than returning errors.
package testutil
