// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Fleetwatch is the operator CLI for a fleetwatch collector. It lists
// registered applications and recent security events, prints aggregate
// statistics, checks collector health, and runs a live full-screen
// view of the fleet.
//
// The collector is addressed with --server (default
// http://localhost:8000, or $FLEETWATCH_SERVER) and authenticated with
// --token (default $FLEETWATCH_TOKEN). Run "fleetwatch --help" for the
// command list.
package main
