// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package collector

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/bureau-foundation/fleetwatch/lib/clock"
	"github.com/bureau-foundation/fleetwatch/lib/codec"
	"github.com/bureau-foundation/fleetwatch/lib/eventstore"
	"github.com/bureau-foundation/fleetwatch/lib/registry"
	"github.com/bureau-foundation/fleetwatch/lib/schema/telemetry"
)

const testToken = "test-token"

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type harness struct {
	collector *Collector
	handler   http.Handler
	registry  *registry.Registry
	store     *eventstore.Store
	clock     *clock.FakeClock
}

func newHarness(t *testing.T, capacity int, maxBody int64) *harness {
	t.Helper()
	h := &harness{
		registry: registry.New(),
		store:    eventstore.New(capacity),
		clock:    clock.Fake(epoch),
	}
	collector, err := New(Config{
		Token:        testToken,
		Registry:     h.registry,
		Store:        h.store,
		Clock:        h.clock,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics:      prometheus.NewRegistry(),
		MaxBodyBytes: maxBody,
		Version:      "1.2.3",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h.collector = collector
	h.handler = collector.Handler()
	return h
}

// do sends a request with the test token and returns the recorder.
func (h *harness) do(t *testing.T, method, target string, body []byte, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	request := httptest.NewRequest(method, target, bytes.NewReader(body))
	request.Header.Set("Authorization", "Bearer "+testToken)
	for key, value := range header {
		if value == "" {
			request.Header.Del(key)
			continue
		}
		request.Header.Set(key, value)
	}
	recorder := httptest.NewRecorder()
	h.handler.ServeHTTP(recorder, request)
	return recorder
}

func (h *harness) postJSON(t *testing.T, target string, value any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(value)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return h.do(t, http.MethodPost, target, data, map[string]string{"Content-Type": codec.MediaTypeJSON})
}

func decode[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()
	var value T
	if err := json.Unmarshal(recorder.Body.Bytes(), &value); err != nil {
		t.Fatalf("decoding %q: %v", recorder.Body.String(), err)
	}
	return value
}

func requireStatus(t *testing.T, recorder *httptest.ResponseRecorder, want int) {
	t.Helper()
	if recorder.Code != want {
		t.Fatalf("expected status %d, got %d (body %q)", want, recorder.Code, recorder.Body.String())
	}
}

func testRegistration(instanceID, appName, podName string) telemetry.Registration {
	return telemetry.Registration{
		InstanceID: instanceID,
		AppName:    appName,
		AppType:    telemetry.AppTypeAPI,
		Namespace:  "default",
		PodName:    podName,
		NodeName:   "node-1",
		IPAddress:  "10.0.0.5",
		Endpoints:  []string{"/api/users"},
		Version:    "1.0.0",
	}
}

func TestNewRequiresToken(t *testing.T) {
	_, err := New(Config{
		Registry: registry.New(),
		Store:    eventstore.New(10),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestAuthentication(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + testToken, http.StatusUnauthorized},
		{"bare token", testToken, http.StatusUnauthorized},
		{"wrong token", "Bearer not-the-token", http.StatusForbidden},
		{"prefix of token", "Bearer test", http.StatusForbidden},
	}

	routes := []struct {
		method string
		target string
		body   string
	}{
		{http.MethodPost, "/api/register", `{"instance_id":"i-1","app_name":"svc","pod_name":"svc-pod"}`},
		{http.MethodPost, "/api/events", `{"event_type":"ddos_attack","severity":"critical"}`},
		{http.MethodGet, "/api/applications", ""},
		{http.MethodGet, "/api/events", ""},
		{http.MethodGet, "/api/stats", ""},
	}

	h := newHarness(t, 10, 0)
	for _, test := range tests {
		for _, route := range routes {
			t.Run(test.name+" "+route.method+" "+route.target, func(t *testing.T) {
				recorder := h.do(t, route.method, route.target, []byte(route.body), map[string]string{
					"Authorization": test.header,
				})
				requireStatus(t, recorder, test.want)
				response := decode[telemetry.ErrorResponse](t, recorder)
				if response.Error == "" {
					t.Fatal("expected error message in body")
				}
			})
		}
	}

	if h.registry.Len() != 0 {
		t.Fatalf("expected no registrations after rejected requests, got %d", h.registry.Len())
	}
	if h.store.TotalCount() != 0 {
		t.Fatalf("expected no events after rejected requests, got %d", h.store.TotalCount())
	}

	rejected := promtest.ToFloat64(h.collector.metrics.rejected.WithLabelValues("invalid_token"))
	if rejected != float64(2*len(routes)) {
		t.Fatalf("expected %d invalid_token rejections, got %v", 2*len(routes), rejected)
	}
}

func TestOpenEndpointsSkipAuthentication(t *testing.T) {
	h := newHarness(t, 10, 0)
	for _, target := range []string{"/health", "/ready", "/metrics"} {
		recorder := h.do(t, http.MethodGet, target, nil, map[string]string{"Authorization": ""})
		requireStatus(t, recorder, http.StatusOK)
	}

	health := decode[telemetry.HealthResponse](t, h.do(t, http.MethodGet, "/health", nil, nil))
	if health.Status != "healthy" || health.Service != ServiceName || health.Version != "1.2.3" {
		t.Fatalf("unexpected health response: %+v", health)
	}
	if !health.Timestamp.Equal(epoch) {
		t.Fatalf("expected timestamp %v, got %v", epoch, health.Timestamp)
	}
}

func TestRegisterIsIdempotent(t *testing.T) {
	h := newHarness(t, 10, 0)

	first := testRegistration("api-1", "user-service", "user-service-abc")
	recorder := h.postJSON(t, "/api/register", first)
	requireStatus(t, recorder, http.StatusOK)
	response := decode[telemetry.RegisterResponse](t, recorder)
	if response.Status != "registered" || response.InstanceID != "api-1" {
		t.Fatalf("unexpected register response: %+v", response)
	}

	second := first
	second.Version = "2.0.0"
	requireStatus(t, h.postJSON(t, "/api/register", second), http.StatusOK)

	if h.registry.Len() != 1 {
		t.Fatalf("expected 1 registration, got %d", h.registry.Len())
	}
	stored, ok := h.registry.Get("api-1")
	if !ok {
		t.Fatal("registration api-1 not found")
	}
	if stored.Version != "2.0.0" {
		t.Fatalf("expected version 2.0.0 after re-registration, got %q", stored.Version)
	}
	if !stored.RegisteredAt.Equal(epoch) {
		t.Fatalf("expected registered_at stamped with %v, got %v", epoch, stored.RegisteredAt)
	}

	ready := decode[telemetry.ReadyResponse](t, h.do(t, http.MethodGet, "/ready", nil, nil))
	if ready.RegisteredApps != 1 {
		t.Fatalf("expected 1 registered app on /ready, got %d", ready.RegisteredApps)
	}
}

func TestRegisterRequiresInstanceID(t *testing.T) {
	h := newHarness(t, 10, 0)
	recorder := h.postJSON(t, "/api/register", testRegistration("", "svc", "svc-pod"))
	requireStatus(t, recorder, http.StatusBadRequest)
	if h.registry.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", h.registry.Len())
	}
}

func TestSubmitEventNormalizes(t *testing.T) {
	h := newHarness(t, 10, 0)

	body := `{"severity":"CATASTROPHIC","event_id":"client-chosen","source_ip":"203.0.113.7","attempts":12}`
	recorder := h.do(t, http.MethodPost, "/api/events", []byte(body), nil)
	requireStatus(t, recorder, http.StatusOK)
	accepted := decode[telemetry.EventAccepted](t, recorder)
	if accepted.Status != "received" {
		t.Fatalf("expected status received, got %q", accepted.Status)
	}

	events := h.store.Snapshot()
	if len(events) != 1 {
		t.Fatalf("expected 1 stored event, got %d", len(events))
	}
	event := events[0]
	if event.EventType != telemetry.UnknownEventType {
		t.Fatalf("expected event_type %q, got %q", telemetry.UnknownEventType, event.EventType)
	}
	if event.Severity != telemetry.SeverityUnknown {
		t.Fatalf("expected severity %q, got %q", telemetry.SeverityUnknown, event.Severity)
	}
	if !event.Timestamp.Equal(epoch) || !event.ReceivedAt.Equal(epoch) {
		t.Fatalf("expected timestamp and received_at %v, got %v and %v", epoch, event.Timestamp, event.ReceivedAt)
	}
	if event.EventID == "" || event.EventID == "client-chosen" {
		t.Fatalf("expected server-assigned event_id, got %q", event.EventID)
	}
	if event.EventID != accepted.EventID {
		t.Fatalf("response event_id %q does not match stored %q", accepted.EventID, event.EventID)
	}
	if event.Field("source_ip") != "203.0.113.7" {
		t.Fatalf("expected source_ip preserved, got %v", event.Fields["source_ip"])
	}
	if attempts, _ := event.Fields["attempts"].(float64); attempts != 12 {
		t.Fatalf("expected attempts 12, got %v", event.Fields["attempts"])
	}
}

func TestSubmitEventCompressedCBOR(t *testing.T) {
	for _, compression := range []codec.Compression{codec.CompressionZstd, codec.CompressionLZ4} {
		t.Run(compression.String(), func(t *testing.T) {
			h := newHarness(t, 10, 0)

			event := telemetry.Event{
				EventType: "brute_force_attack",
				Severity:  telemetry.SeverityHigh,
				Timestamp: epoch.Add(-time.Minute),
				Fields: map[string]any{
					"source_ip":                  "198.51.100.4",
					telemetry.FieldPodName:       "user-service-abc",
					"failed_attempts_per_minute": 250,
				},
			}
			encoded, err := codec.Marshal(codec.CBOR, event)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			compressed, err := codec.Compress(encoded, compression)
			if err != nil {
				t.Fatalf("Compress: %v", err)
			}

			recorder := h.do(t, http.MethodPost, "/api/events", compressed, map[string]string{
				"Content-Type":     codec.MediaTypeCBOR,
				"Content-Encoding": compression.String(),
				"Accept":           codec.MediaTypeCBOR,
			})
			requireStatus(t, recorder, http.StatusOK)
			if got := recorder.Header().Get("Content-Type"); got != codec.MediaTypeCBOR {
				t.Fatalf("expected CBOR response, got %q", got)
			}
			var accepted telemetry.EventAccepted
			if err := codec.Unmarshal(codec.CBOR, recorder.Body.Bytes(), &accepted); err != nil {
				t.Fatalf("decoding CBOR response: %v", err)
			}

			stored := h.store.Snapshot()
			if len(stored) != 1 {
				t.Fatalf("expected 1 stored event, got %d", len(stored))
			}
			if stored[0].EventType != "brute_force_attack" || stored[0].Severity != telemetry.SeverityHigh {
				t.Fatalf("unexpected stored event: %+v", stored[0])
			}
			if !stored[0].Timestamp.Equal(epoch.Add(-time.Minute)) {
				t.Fatalf("expected producer timestamp preserved, got %v", stored[0].Timestamp)
			}
			if stored[0].Field("source_ip") != "198.51.100.4" {
				t.Fatalf("expected source_ip preserved, got %v", stored[0].Fields["source_ip"])
			}
		})
	}
}

func TestSubmitEventRejectsBadBodies(t *testing.T) {
	tests := []struct {
		name   string
		body   []byte
		header map[string]string
		want   int
	}{
		{"malformed json", []byte(`{"event_type":`), nil, http.StatusBadRequest},
		{"not an object", []byte(`[1,2,3]`), nil, http.StatusBadRequest},
		{"unknown encoding", []byte(`{}`), map[string]string{"Content-Encoding": "br"}, http.StatusUnsupportedMediaType},
		{"corrupt zstd", []byte("not zstd"), map[string]string{"Content-Encoding": "zstd"}, http.StatusBadRequest},
		{"oversized", []byte(`{"padding":"` + strings.Repeat("x", 512) + `"}`), nil, http.StatusRequestEntityTooLarge},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			h := newHarness(t, 10, 256)
			recorder := h.do(t, http.MethodPost, "/api/events", test.body, test.header)
			requireStatus(t, recorder, test.want)
			if response := decode[telemetry.ErrorResponse](t, recorder); response.Error == "" {
				t.Fatal("expected error message in body")
			}
			if h.store.TotalCount() != 0 {
				t.Fatalf("expected no stored events, got %d", h.store.TotalCount())
			}
		})
	}
}

func TestSubmitEventRejectsDecompressionBomb(t *testing.T) {
	h := newHarness(t, 10, 1024)

	inflated := []byte(`{"padding":"` + strings.Repeat("a", 64*1024) + `"}`)
	compressed, err := codec.Compress(inflated, codec.CompressionZstd)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if len(compressed) >= 1024 {
		t.Fatalf("test payload compressed to %d bytes, expected under the limit", len(compressed))
	}

	recorder := h.do(t, http.MethodPost, "/api/events", compressed, map[string]string{"Content-Encoding": "zstd"})
	requireStatus(t, recorder, http.StatusRequestEntityTooLarge)
}

func appendEvents(h *harness, severities ...telemetry.Severity) {
	for i, severity := range severities {
		h.store.Append(telemetry.Event{
			EventType: []string{"ddos_attack", "sql_injection"}[i%2],
			Severity:  severity,
			Timestamp: epoch.Add(time.Duration(i) * time.Second),
			EventID:   "event-" + string(rune('1'+i)),
		})
	}
}

func eventIDs(events []telemetry.Event) []string {
	ids := make([]string, len(events))
	for i, event := range events {
		ids[i] = event.EventID
	}
	return ids
}

func TestQueryEvents(t *testing.T) {
	h := newHarness(t, 50, 0)
	appendEvents(h,
		telemetry.SeverityLow,
		telemetry.SeverityHigh,
		telemetry.SeverityLow,
		telemetry.SeverityHigh,
		telemetry.SeverityCritical,
	)

	tests := []struct {
		name      string
		query     string
		wantIDs   []string
		wantCount int
	}{
		{"default", "", []string{"event-5", "event-4", "event-3", "event-2", "event-1"}, 5},
		{"limit", "?limit=2", []string{"event-5", "event-4"}, 5},
		{"severity", "?severity=high", []string{"event-4", "event-2"}, 2},
		{"severity case folded", "?severity=HIGH", []string{"event-4", "event-2"}, 2},
		{"event type", "?event_type=sql_injection", []string{"event-4", "event-2"}, 2},
		{"combined", "?severity=low&event_type=ddos_attack&limit=1", []string{"event-3"}, 2},
		{"no match", "?severity=medium", []string{}, 0},
		{"limit above capacity", "?limit=100000", []string{"event-5", "event-4", "event-3", "event-2", "event-1"}, 5},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			recorder := h.do(t, http.MethodGet, "/api/events"+test.query, nil, nil)
			requireStatus(t, recorder, http.StatusOK)
			response := decode[telemetry.EventsResponse](t, recorder)
			if got := eventIDs(response.Events); strings.Join(got, ",") != strings.Join(test.wantIDs, ",") {
				t.Fatalf("expected events %v, got %v", test.wantIDs, got)
			}
			if response.Count != test.wantCount {
				t.Fatalf("expected count %d, got %d", test.wantCount, response.Count)
			}
			if response.TotalEvents != 5 {
				t.Fatalf("expected total_events 5, got %d", response.TotalEvents)
			}
		})
	}

	for _, bad := range []string{"?limit=0", "?limit=-3", "?limit=ten"} {
		recorder := h.do(t, http.MethodGet, "/api/events"+bad, nil, nil)
		requireStatus(t, recorder, http.StatusBadRequest)
	}
}

func TestQueryEventsEmptyStoreReturnsEmptyList(t *testing.T) {
	h := newHarness(t, 10, 0)
	recorder := h.do(t, http.MethodGet, "/api/events", nil, nil)
	requireStatus(t, recorder, http.StatusOK)
	if !strings.Contains(recorder.Body.String(), `"events":[]`) {
		t.Fatalf("expected empty events array, got %s", recorder.Body.String())
	}
}

func TestApplicationsAndStats(t *testing.T) {
	h := newHarness(t, 10, 0)

	requireStatus(t, h.postJSON(t, "/api/register", testRegistration("api-2", "order-service", "order-service")), http.StatusOK)
	requireStatus(t, h.postJSON(t, "/api/register", testRegistration("api-1", "user-service", "user-service")), http.StatusOK)

	for _, podName := range []string{"user-service-abc", "user-service-def", "order-service-xyz", "stranger-1"} {
		body := `{"event_type":"ddos_attack","severity":"critical","pod_name":"` + podName + `"}`
		requireStatus(t, h.do(t, http.MethodPost, "/api/events", []byte(body), nil), http.StatusOK)
	}

	applications := decode[telemetry.ApplicationsResponse](t, h.do(t, http.MethodGet, "/api/applications", nil, nil))
	if applications.Count != 2 {
		t.Fatalf("expected 2 applications, got %d", applications.Count)
	}
	if applications.Applications[0].InstanceID != "api-1" || applications.Applications[1].InstanceID != "api-2" {
		t.Fatalf("expected applications ordered by instance_id, got %s, %s",
			applications.Applications[0].InstanceID, applications.Applications[1].InstanceID)
	}

	report := decode[telemetry.Stats](t, h.do(t, http.MethodGet, "/api/stats", nil, nil))
	if report.TotalEvents != 4 || report.TotalApplications != 2 {
		t.Fatalf("expected 4 events and 2 applications, got %d and %d", report.TotalEvents, report.TotalApplications)
	}
	if report.EventsByType["ddos_attack"] != 4 {
		t.Fatalf("expected 4 ddos_attack events, got %d", report.EventsByType["ddos_attack"])
	}
	if report.EventsBySeverity["critical"] != 4 {
		t.Fatalf("expected 4 critical events, got %d", report.EventsBySeverity["critical"])
	}
	if report.EventsByApplication["user-service"] != 2 || report.EventsByApplication["order-service"] != 1 {
		t.Fatalf("unexpected events_by_application: %v", report.EventsByApplication)
	}
	if report.ApplicationsByType["api"] != 2 || report.ApplicationsByType["database"] != 0 {
		t.Fatalf("unexpected applications_by_type: %v", report.ApplicationsByType)
	}
	if _, ok := report.ApplicationsByType["webui"]; !ok {
		t.Fatal("expected webui present in applications_by_type")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newHarness(t, 10, 0)
	body := `{"event_type":"sql_injection","severity":"critical","app_type":"database"}`
	requireStatus(t, h.do(t, http.MethodPost, "/api/events", []byte(body), nil), http.StatusOK)
	requireStatus(t, h.postJSON(t, "/api/register", testRegistration("api-1", "user-service", "user-service")), http.StatusOK)

	recorder := h.do(t, http.MethodGet, "/metrics", nil, map[string]string{"Authorization": ""})
	requireStatus(t, recorder, http.StatusOK)
	exposition := recorder.Body.String()
	for _, want := range []string{
		`fleetwatch_collector_events_total{app_type="database",event_type="sql_injection",severity="critical"} 1`,
		`fleetwatch_collector_active_applications{app_type="api"} 1`,
		`fleetwatch_collector_registrations_total{app_type="api"} 1`,
		`fleetwatch_collector_stored_events 1`,
	} {
		if !strings.Contains(exposition, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestEvictionVisibleInStats(t *testing.T) {
	h := newHarness(t, 3, 0)
	for range 5 {
		requireStatus(t, h.do(t, http.MethodPost, "/api/events", []byte(`{"event_type":"x","severity":"low"}`), nil), http.StatusOK)
	}
	report := decode[telemetry.Stats](t, h.do(t, http.MethodGet, "/api/stats", nil, nil))
	if report.TotalEvents != 3 {
		t.Fatalf("expected 3 stored events, got %d", report.TotalEvents)
	}
	if report.EvictedEvents != 2 {
		t.Fatalf("expected 2 evicted events, got %d", report.EvictedEvents)
	}
}
