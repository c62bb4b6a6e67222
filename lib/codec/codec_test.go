// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

type sample struct {
	Name      string         `json:"name"`
	Count     int            `json:"count,omitempty"`
	Tags      []string       `json:"tags,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

func TestFormatsPreserveTimestampPrecision(t *testing.T) {
	original := sample{
		Name:      "api-7d9f",
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC),
	}
	for _, format := range []Format{JSON, CBOR} {
		data, err := Marshal(format, original)
		if err != nil {
			t.Fatalf("%s: Marshal: %v", format, err)
		}
		var decoded sample
		if err := Unmarshal(format, data, &decoded); err != nil {
			t.Fatalf("%s: Unmarshal: %v", format, err)
		}
		if !decoded.Timestamp.Equal(original.Timestamp) {
			t.Errorf("%s: timestamp = %v, want %v", format, decoded.Timestamp, original.Timestamp)
		}
	}
}

func TestCBORDecodesNestedMapsAsStringKeyed(t *testing.T) {
	data, err := MarshalCBOR(map[string]any{
		"extra": map[string]any{"blocked": true},
	})
	if err != nil {
		t.Fatalf("MarshalCBOR: %v", err)
	}
	var decoded map[string]any
	if err := UnmarshalCBOR(data, &decoded); err != nil {
		t.Fatalf("UnmarshalCBOR: %v", err)
	}
	if _, ok := decoded["extra"].(map[string]any); !ok {
		t.Fatalf("expected nested map[string]any, got %T", decoded["extra"])
	}
}

func TestFormatFromContentType(t *testing.T) {
	tests := []struct {
		header string
		want   Format
	}{
		{"application/cbor", CBOR},
		{"application/cbor; charset=binary", CBOR},
		{"application/json", JSON},
		{"", JSON},
		{"text/plain", JSON},
	}
	for _, test := range tests {
		if got := FormatFromContentType(test.header); got != test.want {
			t.Errorf("FormatFromContentType(%q) = %s, want %s", test.header, got, test.want)
		}
	}
}

func TestFormatFromAccept(t *testing.T) {
	if got := FormatFromAccept("application/json, application/cbor;q=0.9"); got != CBOR {
		t.Errorf("expected CBOR when listed, got %s", got)
	}
	if got := FormatFromAccept("*/*"); got != JSON {
		t.Errorf("expected JSON for wildcard, got %s", got)
	}
}

func TestParseFormat(t *testing.T) {
	if format, err := ParseFormat("CBOR"); err != nil || format != CBOR {
		t.Fatalf("ParseFormat(CBOR) = %s, %v", format, err)
	}
	if format, err := ParseFormat(""); err != nil || format != JSON {
		t.Fatalf("ParseFormat(\"\") = %s, %v", format, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatal("expected error for xml")
	}
}

func TestCompressionRoundTrip(t *testing.T) {
	payload := []byte(strings.Repeat(`{"event_type":"sql_injection","severity":"high"}`, 64))
	for _, compression := range []Compression{CompressionNone, CompressionZstd, CompressionLZ4} {
		compressed, err := Compress(payload, compression)
		if err != nil {
			t.Fatalf("%q: Compress: %v", compression, err)
		}
		if compression != CompressionNone && len(compressed) >= len(payload) {
			t.Errorf("%s: compressed size %d not smaller than %d", compression, len(compressed), len(payload))
		}
		restored, err := Decompress(compressed, compression, int64(len(payload)))
		if err != nil {
			t.Fatalf("%q: Decompress: %v", compression, err)
		}
		if !bytes.Equal(restored, payload) {
			t.Errorf("%q: round trip changed the payload", compression)
		}
	}
}

func TestDecompressEnforcesLimit(t *testing.T) {
	payload := bytes.Repeat([]byte("a"), 4096)
	for _, compression := range []Compression{CompressionNone, CompressionZstd, CompressionLZ4} {
		compressed, err := Compress(payload, compression)
		if err != nil {
			t.Fatalf("%q: Compress: %v", compression, err)
		}
		_, err = Decompress(compressed, compression, 1024)
		if !errors.Is(err, ErrTooLarge) {
			t.Errorf("%q: expected ErrTooLarge, got %v", compression, err)
		}
	}
}

func TestParseCompression(t *testing.T) {
	tests := []struct {
		name string
		want Compression
	}{
		{"", CompressionNone},
		{"identity", CompressionNone},
		{"zstd", CompressionZstd},
		{"LZ4", CompressionLZ4},
	}
	for _, test := range tests {
		got, err := ParseCompression(test.name)
		if err != nil {
			t.Fatalf("ParseCompression(%q): %v", test.name, err)
		}
		if got != test.want {
			t.Errorf("ParseCompression(%q) = %q, want %q", test.name, got, test.want)
		}
	}
	if _, err := ParseCompression("gzip"); err == nil {
		t.Fatal("expected error for gzip")
	}
}
