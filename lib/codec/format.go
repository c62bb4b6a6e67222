// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"encoding/json"
	"fmt"
	"mime"
	"strings"
)

// Format identifies a body encoding.
type Format uint8

const (
	// JSON is application/json. It is the zero value so an unset
	// Format means JSON.
	JSON Format = iota

	// CBOR is application/cbor.
	CBOR
)

const (
	MediaTypeJSON = "application/json"
	MediaTypeCBOR = "application/cbor"
)

// String returns the configuration name of the format.
func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case CBOR:
		return "cbor"
	default:
		return fmt.Sprintf("unknown(%d)", f)
	}
}

// MediaType returns the HTTP media type for the format.
func (f Format) MediaType() string {
	if f == CBOR {
		return MediaTypeCBOR
	}
	return MediaTypeJSON
}

// ParseFormat parses a configuration name. The empty string is JSON.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return JSON, nil
	case "cbor":
		return CBOR, nil
	default:
		return 0, fmt.Errorf("unknown encoding %q (want json or cbor)", name)
	}
}

// FormatFromContentType maps a Content-Type header to a Format.
// Anything that is not application/cbor is treated as JSON, which keeps
// clients that omit the header working.
func FormatFromContentType(contentType string) Format {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err == nil && mediaType == MediaTypeCBOR {
		return CBOR
	}
	return JSON
}

// FormatFromAccept picks the response format for an Accept header.
// CBOR is chosen only when the client names it explicitly.
func FormatFromAccept(accept string) Format {
	for _, part := range strings.Split(accept, ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err == nil && mediaType == MediaTypeCBOR {
			return CBOR
		}
	}
	return JSON
}

// Marshal encodes v in the given format.
func Marshal(format Format, v any) ([]byte, error) {
	if format == CBOR {
		return MarshalCBOR(v)
	}
	return json.Marshal(v)
}

// Unmarshal decodes data in the given format into v.
func Unmarshal(format Format, data []byte, v any) error {
	if format == CBOR {
		return UnmarshalCBOR(data, v)
	}
	return json.Unmarshal(data, v)
}
