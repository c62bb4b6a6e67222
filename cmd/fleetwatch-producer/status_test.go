// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bureau-foundation/fleetwatch/lib/collector"
	"github.com/bureau-foundation/fleetwatch/lib/config"
	"github.com/bureau-foundation/fleetwatch/lib/eventstore"
	"github.com/bureau-foundation/fleetwatch/lib/producer"
	"github.com/bureau-foundation/fleetwatch/lib/registry"
	"github.com/bureau-foundation/fleetwatch/lib/testutil"
)

func producerConfig(t *testing.T) config.ProducerConfig {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server, err := collector.New(collector.Config{
		Token:    "producer-token",
		Registry: registry.New(),
		Store:    eventstore.New(100),
		Logger:   logger,
	})
	if err != nil {
		t.Fatalf("collector.New: %v", err)
	}
	collectorServer := httptest.NewServer(server.Handler())
	t.Cleanup(collectorServer.Close)

	cfg := config.Default().Producer
	cfg.CollectorURL = collectorServer.URL
	cfg.BearerToken = "producer-token"
	cfg.Encoding = "cbor"
	cfg.Compression = "zstd"
	cfg.TickInterval = time.Hour
	cfg.Instances = []config.InstanceConfig{
		{AppName: "user-service", AppType: "api", PodName: "user-service-7d9f", InstanceID: "user-service-a"},
		{AppName: "user-service", AppType: "api", PodName: "user-service-8e0a", InstanceID: "user-service-b"},
	}
	return cfg
}

func getStatus(t *testing.T, handler http.Handler, path string) (int, statusResponse) {
	t.Helper()
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))
	var body statusResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding %s: %v", path, err)
	}
	return recorder.Code, body
}

func TestAgentsShareRegistryPerInstance(t *testing.T) {
	cfg := producerConfig(t)
	client, err := newCollectorClient(cfg)
	if err != nil {
		t.Fatalf("newCollectorClient: %v", err)
	}
	metrics := prometheus.NewRegistry()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	agents, err := newAgents(cfg, client, metrics, logger)
	if err != nil {
		t.Fatalf("newAgents: %v", err)
	}
	if len(agents) != 2 {
		t.Fatalf("expected 2 agents, got %d", len(agents))
	}

	handler := newStatusHandler(agents, metrics)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected /metrics 200, got %d", recorder.Code)
	}
	for _, want := range []string{`instance="user-service-a"`, `instance="user-service-b"`} {
		if !strings.Contains(recorder.Body.String(), want) {
			t.Errorf("expected /metrics to contain %s", want)
		}
	}
}

func TestStatusEndpointsFollowAgentLifecycle(t *testing.T) {
	cfg := producerConfig(t)
	client, err := newCollectorClient(cfg)
	if err != nil {
		t.Fatalf("newCollectorClient: %v", err)
	}
	metrics := prometheus.NewRegistry()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	agents, err := newAgents(cfg, client, metrics, logger)
	if err != nil {
		t.Fatalf("newAgents: %v", err)
	}
	handler := newStatusHandler(agents, metrics)

	code, body := getStatus(t, handler, "/ready")
	if code != http.StatusServiceUnavailable || body.Status != "not_ready" {
		t.Fatalf("expected idle agents not ready, got %d %q", code, body.Status)
	}
	code, body = getStatus(t, handler, "/health")
	if code != http.StatusOK || len(body.Agents) != 2 {
		t.Fatalf("expected healthy with 2 agents, got %d with %d", code, len(body.Agents))
	}
	if body.Agents[0].State != "idle" {
		t.Errorf("expected idle state, got %q", body.Agents[0].State)
	}

	ctx, cancel := context.WithCancel(context.Background())
	for _, agent := range agents {
		go agent.Run(ctx)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		code, _ = getStatus(t, handler, "/ready")
		if code == http.StatusOK {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("agents never became ready")
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	for _, agent := range agents {
		testutil.RequireClosed(t, agent.Done(), 5*time.Second, "agent %s stopping", agent.Registration().InstanceID)
	}
	code, body = getStatus(t, handler, "/health")
	if code != http.StatusServiceUnavailable || body.Status != "stopped" {
		t.Fatalf("expected stopped after cancellation, got %d %q", code, body.Status)
	}
	for _, agent := range body.Agents {
		if agent.State != producer.StateStopped.String() {
			t.Errorf("expected %s stopped, got %q", agent.InstanceID, agent.State)
		}
	}
}
