// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package collectorclient

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bureau-foundation/fleetwatch/lib/clock"
	"github.com/bureau-foundation/fleetwatch/lib/codec"
	"github.com/bureau-foundation/fleetwatch/lib/collector"
	"github.com/bureau-foundation/fleetwatch/lib/eventstore"
	"github.com/bureau-foundation/fleetwatch/lib/registry"
	"github.com/bureau-foundation/fleetwatch/lib/schema/telemetry"
)

const testToken = "client-test-token"

func startCollector(t *testing.T) (*httptest.Server, *eventstore.Store) {
	t.Helper()
	store := eventstore.New(100)
	c, err := collector.New(collector.Config{
		Token:    testToken,
		Registry: registry.New(),
		Store:    store,
		Clock:    clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Version:  "test",
	})
	if err != nil {
		t.Fatalf("collector.New: %v", err)
	}
	server := httptest.NewServer(c.Handler())
	t.Cleanup(server.Close)
	return server, store
}

func newClient(t *testing.T, baseURL, token string, format codec.Format, compression codec.Compression) *Client {
	t.Helper()
	client, err := New(Config{
		BaseURL:     baseURL,
		Token:       token,
		Format:      format,
		Compression: compression,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func TestNewRejectsBadURLs(t *testing.T) {
	for _, raw := range []string{"", "collector:8000", "ftp://collector", "http://"} {
		if _, err := New(Config{BaseURL: raw}); err == nil {
			t.Errorf("expected error for base URL %q", raw)
		}
	}
}

func TestRoundTripAcrossEncodings(t *testing.T) {
	combinations := []struct {
		name        string
		format      codec.Format
		compression codec.Compression
	}{
		{"json", codec.JSON, codec.CompressionNone},
		{"json+zstd", codec.JSON, codec.CompressionZstd},
		{"cbor", codec.CBOR, codec.CompressionNone},
		{"cbor+lz4", codec.CBOR, codec.CompressionLZ4},
	}

	for _, combination := range combinations {
		t.Run(combination.name, func(t *testing.T) {
			server, store := startCollector(t)
			client := newClient(t, server.URL, testToken, combination.format, combination.compression)
			ctx := context.Background()

			err := client.Register(ctx, telemetry.Registration{
				InstanceID: "db-1",
				AppName:    "postgres-primary",
				AppType:    telemetry.AppTypeDatabase,
				PodName:    "postgres-primary",
				Endpoints:  []string{"/query"},
			})
			if err != nil {
				t.Fatalf("Register: %v", err)
			}

			err = client.SubmitEvent(ctx, telemetry.Event{
				EventType: "privilege_escalation",
				Severity:  telemetry.SeverityCritical,
				Timestamp: time.Date(2026, 3, 1, 11, 59, 0, 0, time.UTC),
				Fields: map[string]any{
					telemetry.FieldPodName: "postgres-primary-0",
					"user":                 "app_user",
				},
			})
			if err != nil {
				t.Fatalf("SubmitEvent: %v", err)
			}
			if store.TotalCount() != 1 {
				t.Fatalf("expected 1 stored event, got %d", store.TotalCount())
			}

			applications, err := client.Applications(ctx)
			if err != nil {
				t.Fatalf("Applications: %v", err)
			}
			if applications.Count != 1 || applications.Applications[0].AppName != "postgres-primary" {
				t.Fatalf("unexpected applications: %+v", applications)
			}

			events, err := client.Events(ctx, telemetry.EventQuery{Severity: "critical"})
			if err != nil {
				t.Fatalf("Events: %v", err)
			}
			if len(events.Events) != 1 || events.Events[0].EventType != "privilege_escalation" {
				t.Fatalf("unexpected events: %+v", events.Events)
			}
			if events.Events[0].Field("user") != "app_user" {
				t.Fatalf("expected user field preserved, got %v", events.Events[0].Fields["user"])
			}

			report, err := client.Stats(ctx)
			if err != nil {
				t.Fatalf("Stats: %v", err)
			}
			if report.EventsByApplication["postgres-primary"] != 1 {
				t.Fatalf("expected 1 event attributed to postgres-primary, got %v", report.EventsByApplication)
			}
		})
	}
}

func TestEventsQueryParameters(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		gotQuery = request.URL.RawQuery
		writer.Header().Set("Content-Type", codec.MediaTypeJSON)
		io.WriteString(writer, `{"events":[],"count":0,"total_events":0,"timestamp":"2026-03-01T12:00:00Z"}`)
	}))
	t.Cleanup(server.Close)

	client := newClient(t, server.URL, testToken, codec.JSON, codec.CompressionNone)
	_, err := client.Events(context.Background(), telemetry.EventQuery{
		Severity:  "high",
		EventType: "ddos_attack",
		Limit:     7,
	})
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if gotQuery != "event_type=ddos_attack&limit=7&severity=high" {
		t.Fatalf("unexpected query string %q", gotQuery)
	}
}

func TestStatusErrors(t *testing.T) {
	server, _ := startCollector(t)
	ctx := context.Background()

	wrong := newClient(t, server.URL, "wrong-token", codec.JSON, codec.CompressionNone)
	_, err := wrong.Stats(ctx)
	if !IsStatus(err, http.StatusForbidden) {
		t.Fatalf("expected 403 StatusError, got %v", err)
	}

	anonymous := newClient(t, server.URL, "", codec.CBOR, codec.CompressionNone)
	err = anonymous.SubmitEvent(ctx, telemetry.Event{EventType: "x", Severity: telemetry.SeverityLow})
	if !IsStatus(err, http.StatusUnauthorized) {
		t.Fatalf("expected 401 StatusError, got %v", err)
	}
	if statusErr := err.(*StatusError); statusErr.Message == "" {
		t.Fatal("expected collector error message in StatusError")
	}

	health, err := anonymous.Health(ctx)
	if err != nil {
		t.Fatalf("Health without token: %v", err)
	}
	if health.Status != "healthy" {
		t.Fatalf("expected healthy, got %q", health.Status)
	}
}

func TestCancelledContext(t *testing.T) {
	server, store := startCollector(t)
	client := newClient(t, server.URL, testToken, codec.JSON, codec.CompressionNone)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := client.SubmitEvent(ctx, telemetry.Event{EventType: "x"}); err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if store.TotalCount() != 0 {
		t.Fatalf("expected no stored events, got %d", store.TotalCount())
	}
}
