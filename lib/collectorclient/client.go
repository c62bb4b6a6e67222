// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package collectorclient is the HTTP client for the collector API,
// used by producers to register and submit events and by the fleetwatch
// CLI to query applications, events, and stats.
package collectorclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bureau-foundation/fleetwatch/lib/codec"
	"github.com/bureau-foundation/fleetwatch/lib/schema/telemetry"
)

// maxResponseSize bounds a decoded response body. An events query at
// the default store capacity stays well below it.
const maxResponseSize = 64 << 20

// defaultTimeout applies when the caller supplies no HTTP client.
// Per-call deadlines come from the context.
const defaultTimeout = 30 * time.Second

// StatusError is returned when the collector answers with a non-2xx
// status. Message is the collector's error text when the body carried
// one.
type StatusError struct {
	Method  string
	Path    string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.Code, http.StatusText(e.Code), e.Message)
}

// IsStatus reports whether err is a *StatusError with the given code.
func IsStatus(err error, code int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Code == code
}

// Config configures a Client.
type Config struct {
	// BaseURL is the collector root, e.g. "http://collector:8000".
	// Required.
	BaseURL string

	// Token is sent as a bearer token on every request. Empty omits
	// the Authorization header (useful for /health).
	Token string

	// Format selects the request and response encoding.
	Format codec.Format

	// Compression is applied to request bodies.
	Compression codec.Compression

	// HTTPClient defaults to a client with a 30 second timeout.
	HTTPClient *http.Client
}

// Client calls the collector HTTP API.
//
// Thread-safe: all methods may be called concurrently.
type Client struct {
	baseURL     *url.URL
	token       string
	format      codec.Format
	compression codec.Compression
	http        *http.Client
}

// New returns a Client for config. Returns an error when BaseURL does
// not parse as an absolute http or https URL.
func New(config Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(config.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing collector URL %q: %w", config.BaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("collector URL %q must use http or https", config.BaseURL)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("collector URL %q has no host", config.BaseURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return &Client{
		baseURL:     base,
		token:       config.Token,
		format:      config.Format,
		compression: config.Compression,
		http:        httpClient,
	}, nil
}

// Register announces a producer instance.
func (c *Client) Register(ctx context.Context, registration telemetry.Registration) error {
	var response telemetry.RegisterResponse
	return c.call(ctx, http.MethodPost, "/api/register", nil, registration, &response)
}

// SubmitEvent sends one event to the collector.
func (c *Client) SubmitEvent(ctx context.Context, event telemetry.Event) error {
	var response telemetry.EventAccepted
	return c.call(ctx, http.MethodPost, "/api/events", nil, event, &response)
}

// Applications lists registered producers.
func (c *Client) Applications(ctx context.Context) (*telemetry.ApplicationsResponse, error) {
	var response telemetry.ApplicationsResponse
	if err := c.call(ctx, http.MethodGet, "/api/applications", nil, nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// Events returns recent events matching query, newest first.
func (c *Client) Events(ctx context.Context, query telemetry.EventQuery) (*telemetry.EventsResponse, error) {
	values := url.Values{}
	if query.Severity != "" {
		values.Set("severity", query.Severity)
	}
	if query.EventType != "" {
		values.Set("event_type", query.EventType)
	}
	if query.Limit > 0 {
		values.Set("limit", strconv.Itoa(query.Limit))
	}

	var response telemetry.EventsResponse
	if err := c.call(ctx, http.MethodGet, "/api/events", values, nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// Stats returns the collector's aggregate report.
func (c *Client) Stats(ctx context.Context) (*telemetry.Stats, error) {
	var response telemetry.Stats
	if err := c.call(ctx, http.MethodGet, "/api/stats", nil, nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// Health returns the collector's liveness report. It does not need a
// token.
func (c *Client) Health(ctx context.Context) (*telemetry.HealthResponse, error) {
	var response telemetry.HealthResponse
	if err := c.call(ctx, http.MethodGet, "/health", nil, nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// call performs one request. A nil body sends no payload; a nil
// result discards the response body.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, body, result any) error {
	target := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	var payload io.Reader
	if body != nil {
		data, err := codec.Marshal(c.format, body)
		if err != nil {
			return fmt.Errorf("encoding %s %s request: %w", method, path, err)
		}
		data, err = codec.Compress(data, c.compression)
		if err != nil {
			return fmt.Errorf("compressing %s %s request: %w", method, path, err)
		}
		payload = bytes.NewReader(data)
	}

	request, err := http.NewRequestWithContext(ctx, method, target.String(), payload)
	if err != nil {
		return fmt.Errorf("building %s %s request: %w", method, path, err)
	}
	request.Header.Set("Accept", c.format.MediaType())
	if body != nil {
		request.Header.Set("Content-Type", c.format.MediaType())
		if c.compression != codec.CompressionNone {
			request.Header.Set("Content-Encoding", c.compression.String())
		}
	}
	if c.token != "" {
		request.Header.Set("Authorization", "Bearer "+c.token)
	}

	response, err := c.http.Do(request)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	data, err := io.ReadAll(io.LimitReader(response.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("reading %s %s response: %w", method, path, err)
	}

	responseFormat := codec.FormatFromContentType(response.Header.Get("Content-Type"))
	if response.StatusCode < 200 || response.StatusCode > 299 {
		statusErr := &StatusError{Method: method, Path: path, Code: response.StatusCode}
		var errorBody telemetry.ErrorResponse
		if codec.Unmarshal(responseFormat, data, &errorBody) == nil {
			statusErr.Message = errorBody.Error
		}
		return statusErr
	}

	if result != nil {
		if err := codec.Unmarshal(responseFormat, data, result); err != nil {
			return fmt.Errorf("decoding %s %s response: %w", method, path, err)
		}
	}
	return nil
}
