// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds the fleet wire formats: the body encodings a
// producer and the collector agree on, and the optional body
// compression layered under them.
//
// Two encodings are supported. JSON is the default and what curl and
// the dashboard speak. CBOR is the compact binary form producers use
// when configured with `encoding: cbor`; it is selected per request by
// the application/cbor media type. Every wire type carries `json` struct
// tags only, which the CBOR encoder also honours, so one set of tags
// covers both formats.
//
// The CBOR encoder uses Core Deterministic Encoding (RFC 8949 §4.2) and
// writes time.Time values as RFC 3339 strings with nanoseconds, so a
// timestamp survives a CBOR hop with the same precision as a JSON one.
//
// Compression is negotiated with the Content-Encoding header: zstd or
// lz4 (frame format). Decompression always takes a size limit.
package codec
