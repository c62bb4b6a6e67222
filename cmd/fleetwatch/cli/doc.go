// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the fleetwatch
// CLI.
//
// The central type is [Command], a named subcommand with optional
// nested [Command.Subcommands], a Params factory whose tagged struct
// fields become flags (see [BindFlags]), and a context-aware Run
// function. Commands are assembled into a tree in cmd/fleetwatch and
// dispatched via [Command.Execute], which handles flag parsing,
// subcommand routing, and structured help output with examples.
//
// When a user types an unknown subcommand or flag, the framework
// computes Levenshtein edit distance against all known names and
// suggests the closest match (threshold: distance <= 3).
//
// Commands report failures as [ToolError] values so the caller can
// tell bad input from an unreachable or unauthorized collector.
package cli
