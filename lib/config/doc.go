// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the fleetwatch
// collector and producer.
//
// Configuration is loaded from a single file specified by either the
// FLEETWATCH_CONFIG environment variable (via [Load]) or a --config
// flag (via [LoadFile]). There are no fallbacks and no automatic file
// search. Files are YAML, or JSON with comments when the name ends in
// .json or .jsonc.
//
// The configuration file supports environment-specific sections
// (development, staging, production) that override base values when
// [Config].Environment matches. Production always logs JSON and
// refuses the placeholder bearer token.
//
// Variable expansion is performed after loading on bearer tokens,
// listen addresses, the collector URL, and instance identity fields:
// ${VAR} and ${VAR:-default} patterns are expanded from the process
// environment. This is how pod identity reaches a producer running
// under Kubernetes (pod_name: ${POD_NAME}).
//
// Key exports:
//
//   - [Config] -- master struct with Log, Collector, Producer
//   - [Default] -- returns a Config with development defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [Config.ValidateCollector] and [Config.ValidateProducer] --
//     per-binary validation, reporting every problem at once
package config
