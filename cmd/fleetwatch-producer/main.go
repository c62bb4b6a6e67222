// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/bureau-foundation/fleetwatch/lib/codec"
	"github.com/bureau-foundation/fleetwatch/lib/collectorclient"
	"github.com/bureau-foundation/fleetwatch/lib/config"
	"github.com/bureau-foundation/fleetwatch/lib/process"
	"github.com/bureau-foundation/fleetwatch/lib/producer"
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
		fmt.Printf("fleetwatch-producer %s\n", version.Full())
		return nil
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if err := cfg.ValidateProducer(); err != nil {
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

	client, err := newCollectorClient(cfg.Producer)
	if err != nil {
		return err
	}

	metrics := prometheus.NewRegistry()
	metrics.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	agents, err := newAgents(cfg.Producer, client, metrics, logger)
	if err != nil {
		return err
	}

	logger.Info("producer starting",
		"version", version.Info(),
		"environment", cfg.Environment,
		"collector_url", cfg.Producer.CollectorURL,
		"instances", len(agents),
	)

	group, groupCtx := errgroup.WithContext(ctx)
	for _, agent := range agents {
		group.Go(func() error {
			return agent.Run(groupCtx)
		})
	}
	if cfg.Producer.Listen != "" {
		httpServer := service.NewHTTPServer(service.HTTPServerConfig{
			Address: cfg.Producer.Listen,
			Handler: service.LogRequests(logger, newStatusHandler(agents, metrics)),
			Logger:  logger,
		})
		group.Go(func() error {
			return httpServer.Serve(groupCtx)
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}
	logger.Info("producer stopped")
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// newCollectorClient builds the client every agent shares. The encoding
// and compression were checked by ValidateProducer.
func newCollectorClient(cfg config.ProducerConfig) (*collectorclient.Client, error) {
	format, err := codec.ParseFormat(cfg.Encoding)
	if err != nil {
		return nil, err
	}
	compression, err := codec.ParseCompression(cfg.Compression)
	if err != nil {
		return nil, err
	}
	return collectorclient.New(collectorclient.Config{
		BaseURL:     cfg.CollectorURL,
		Token:       cfg.BearerToken,
		Format:      format,
		Compression: compression,
	})
}

// newAgents creates one agent per configured instance. Each agent's
// collectors are registered under an "instance" label so instances of
// the same app type can share the process registry.
func newAgents(cfg config.ProducerConfig, client *collectorclient.Client, metrics *prometheus.Registry, logger *slog.Logger) ([]*producer.Agent, error) {
	agents := make([]*producer.Agent, 0, len(cfg.Instances))
	for _, instance := range cfg.Instances {
		registration := instance.Registration()

		var random *rand.Rand
		if instance.Seed != nil {
			random = rand.New(rand.NewPCG(*instance.Seed, *instance.Seed))
		}

		agent, err := producer.New(producer.Config{
			Registration:        registration,
			Registrar:           client,
			Sink:                client,
			Probability:         instance.Probability(),
			MetricsPrefix:       instance.MetricsPrefix,
			Metrics:             prometheus.WrapRegistererWith(prometheus.Labels{"instance": registration.InstanceID}, metrics),
			Random:              random,
			TickInterval:        cfg.TickInterval,
			RegistrationTimeout: cfg.RegistrationTimeout,
			SubmissionTimeout:   cfg.SubmissionTimeout,
			Logger:              logger,
		})
		if err != nil {
			return nil, err
		}
		agents = append(agents, agent)
	}
	return agents, nil
}
