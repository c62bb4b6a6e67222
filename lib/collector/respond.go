// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package collector

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/bureau-foundation/fleetwatch/lib/codec"
	"github.com/bureau-foundation/fleetwatch/lib/schema/telemetry"
)

// requestError is a client error detected while reading a request.
// Reason labels the rejection metric.
type requestError struct {
	status int
	reason string
	err    error
}

func (e *requestError) Error() string { return e.err.Error() }

// decodeBody reads the request body, undoing Content-Encoding and
// decoding by Content-Type into target. The size limit applies both to
// the bytes on the wire and to the decompressed payload.
func (c *Collector) decodeBody(writer http.ResponseWriter, request *http.Request, target any) error {
	compression, err := codec.ParseCompression(request.Header.Get("Content-Encoding"))
	if err != nil {
		return &requestError{status: http.StatusUnsupportedMediaType, reason: "unsupported_encoding", err: err}
	}

	raw, err := io.ReadAll(http.MaxBytesReader(writer, request.Body, c.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &requestError{status: http.StatusRequestEntityTooLarge, reason: "too_large", err: fmt.Errorf("request body exceeds %d bytes", c.maxBodyBytes)}
		}
		return &requestError{status: http.StatusBadRequest, reason: "bad_body", err: fmt.Errorf("reading request body: %w", err)}
	}

	data, err := codec.Decompress(raw, compression, c.maxBodyBytes)
	if err != nil {
		if errors.Is(err, codec.ErrTooLarge) {
			return &requestError{status: http.StatusRequestEntityTooLarge, reason: "too_large", err: err}
		}
		return &requestError{status: http.StatusBadRequest, reason: "bad_body", err: fmt.Errorf("decompressing %s body: %w", compression, err)}
	}

	format := codec.FormatFromContentType(request.Header.Get("Content-Type"))
	if err := codec.Unmarshal(format, data, target); err != nil {
		return &requestError{status: http.StatusBadRequest, reason: "bad_body", err: fmt.Errorf("decoding %s body: %w", format, err)}
	}
	return nil
}

// failRequest writes the response for an error from decodeBody.
func (c *Collector) failRequest(writer http.ResponseWriter, request *http.Request, err error) {
	var requestErr *requestError
	if errors.As(err, &requestErr) {
		c.reject(writer, request, requestErr.status, requestErr.reason, requestErr.Error())
		return
	}
	c.reject(writer, request, http.StatusBadRequest, "bad_body", err.Error())
}

// reject counts a refused request, logs it, and writes an
// ErrorResponse.
func (c *Collector) reject(writer http.ResponseWriter, request *http.Request, status int, reason, message string) {
	c.metrics.rejected.WithLabelValues(reason).Inc()
	c.logger.Warn("request rejected",
		"method", request.Method,
		"path", request.URL.Path,
		"status", status,
		"reason", reason,
		"remote", request.RemoteAddr,
	)
	c.respond(writer, request, status, telemetry.ErrorResponse{Error: message})
}

// respond encodes body in the format the client accepts.
func (c *Collector) respond(writer http.ResponseWriter, request *http.Request, status int, body any) {
	format := codec.FormatFromAccept(request.Header.Get("Accept"))
	data, err := codec.Marshal(format, body)
	if err != nil {
		c.logger.Error("encoding response", "path", request.URL.Path, "error", err)
		http.Error(writer, "internal error", http.StatusInternalServerError)
		return
	}
	writer.Header().Set("Content-Type", format.MediaType())
	writer.WriteHeader(status)
	if _, err := writer.Write(data); err != nil {
		c.logger.Debug("writing response", "path", request.URL.Path, "error", err)
	}
}
