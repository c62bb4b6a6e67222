// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Fleetwatch-producer runs one or more simulated applications, each an
// independent agent that registers with the collector once and then
// samples domain metrics and occasionally emits a synthetic security
// event on every tick.
//
// Instances are listed in the producer section of the config file. Each
// instance's metrics are exported on the process's /metrics endpoint
// with an "instance" label carrying its instance id. /health reports
// every agent's lifecycle state and counters; /ready answers 200 once
// every agent has finished registering.
//
// SIGINT or SIGTERM stops all agents. A submission already underway is
// allowed to finish within the submission timeout.
package main
