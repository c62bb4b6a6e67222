// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/bureau-foundation/fleetwatch/lib/clock"
	"github.com/bureau-foundation/fleetwatch/lib/collector"
	"github.com/bureau-foundation/fleetwatch/lib/config"
	"github.com/bureau-foundation/fleetwatch/lib/eventstore"
	"github.com/bureau-foundation/fleetwatch/lib/process"
	"github.com/bureau-foundation/fleetwatch/lib/registry"
	"github.com/bureau-foundation/fleetwatch/lib/service"
	"github.com/bureau-foundation/fleetwatch/lib/version"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	var (
		configPath  string
		showVersion bool
	)
	flag.StringVar(&configPath, "config", "", "path to the config file (default: $FLEETWATCH_CONFIG)")
	flag.BoolVar(&showVersion, "version", false, "print version information and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("fleetwatch-collector %s\n", version.Full())
		return nil
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if err := cfg.ValidateCollector(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := service.NewLogger(service.LoggerOptions{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := prometheus.NewRegistry()
	metrics.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	server, err := collector.New(collector.Config{
		Token:        cfg.Collector.BearerToken,
		Registry:     registry.New(),
		Store:        eventstore.New(cfg.Collector.EventCapacity),
		Clock:        clock.Real(),
		Logger:       logger,
		Metrics:      metrics,
		MaxBodyBytes: cfg.Collector.MaxBodyBytes,
		Version:      version.Short(),
	})
	if err != nil {
		return err
	}

	httpServer := service.NewHTTPServer(service.HTTPServerConfig{
		Address:         cfg.Collector.Listen,
		Handler:         service.LogRequests(logger, server.Handler()),
		ShutdownTimeout: cfg.Collector.ShutdownTimeout,
		Logger:          logger,
	})

	logger.Info("collector starting",
		"version", version.Info(),
		"environment", cfg.Environment,
		"listen", cfg.Collector.Listen,
		"event_capacity", cfg.Collector.EventCapacity,
	)

	if err := httpServer.Serve(ctx); err != nil {
		return err
	}
	logger.Info("collector stopped")
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}
