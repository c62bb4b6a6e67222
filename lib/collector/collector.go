// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package collector

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/fleetwatch/lib/clock"
	"github.com/bureau-foundation/fleetwatch/lib/eventstore"
	"github.com/bureau-foundation/fleetwatch/lib/registry"
)

// DefaultMaxBodyBytes bounds a request body, after decompression.
const DefaultMaxBodyBytes = 4 << 20

// ServiceName is reported by /health.
const ServiceName = "fleetwatch-collector"

// Config holds the collector's dependencies.
type Config struct {
	// Token is the shared bearer token every /api/ request must carry.
	// Required.
	Token string

	// Registry and Store hold the collector's state. Required.
	Registry *registry.Registry
	Store    *eventstore.Store

	// Clock stamps received_at, registration, and response times.
	// Defaults to clock.Real().
	Clock clock.Clock

	// Logger is required.
	Logger *slog.Logger

	// Metrics receives the collector's Prometheus collectors and is
	// served on /metrics. Defaults to a fresh registry.
	Metrics *prometheus.Registry

	// MaxBodyBytes caps request bodies both on the wire and after
	// decompression. Defaults to DefaultMaxBodyBytes.
	MaxBodyBytes int64

	// Version is reported by /health.
	Version string
}

// Collector serves the collector HTTP API. Create with New.
//
// Thread-safe: the handler may serve requests concurrently.
type Collector struct {
	tokenDigest  [32]byte
	registry     *registry.Registry
	store        *eventstore.Store
	clock        clock.Clock
	logger       *slog.Logger
	gatherer     *prometheus.Registry
	metrics      *metrics
	maxBodyBytes int64
	version      string
}

// New validates config and returns a Collector. Returns an error when
// the token is empty or a metric collector cannot be registered.
func New(config Config) (*Collector, error) {
	if config.Registry == nil {
		panic("collector: Registry is required")
	}
	if config.Store == nil {
		panic("collector: Store is required")
	}
	if config.Logger == nil {
		panic("collector: Logger is required")
	}
	if config.Token == "" {
		return nil, errors.New("collector: bearer token is required")
	}

	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	gatherer := config.Metrics
	if gatherer == nil {
		gatherer = prometheus.NewRegistry()
	}
	maxBody := config.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	m, err := newMetrics(gatherer, config.Store)
	if err != nil {
		return nil, err
	}
	m.setActive(config.Registry.CountsByType())

	return &Collector{
		tokenDigest:  blake3.Sum256([]byte(config.Token)),
		registry:     config.Registry,
		store:        config.Store,
		clock:        clk,
		logger:       config.Logger,
		gatherer:     gatherer,
		metrics:      m,
		maxBodyBytes: maxBody,
		version:      config.Version,
	}, nil
}

// Handler returns the routed HTTP handler.
func (c *Collector) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /api/register", c.authenticate(http.HandlerFunc(c.handleRegister)))
	mux.Handle("POST /api/events", c.authenticate(http.HandlerFunc(c.handleSubmitEvent)))
	mux.Handle("GET /api/applications", c.authenticate(http.HandlerFunc(c.handleApplications)))
	mux.Handle("GET /api/events", c.authenticate(http.HandlerFunc(c.handleEvents)))
	mux.Handle("GET /api/stats", c.authenticate(http.HandlerFunc(c.handleStats)))

	mux.HandleFunc("GET /health", c.handleHealth)
	mux.HandleFunc("GET /ready", c.handleReady)
	mux.Handle("GET /metrics", promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{
		ErrorLog: slog.NewLogLogger(c.logger.Handler(), slog.LevelError),
		Registry: c.gatherer,
	}))

	return mux
}
