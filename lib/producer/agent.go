// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package producer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bureau-foundation/fleetwatch/lib/anomaly"
	"github.com/bureau-foundation/fleetwatch/lib/clock"
	"github.com/bureau-foundation/fleetwatch/lib/sampler"
	"github.com/bureau-foundation/fleetwatch/lib/schema/telemetry"
)

const (
	// DefaultTickInterval is the time between ticks.
	DefaultTickInterval = 5 * time.Second

	// DefaultSubmissionTimeout bounds each event submission.
	DefaultSubmissionTimeout = 5 * time.Second
)

// Sink receives generated events.
type Sink interface {
	SubmitEvent(ctx context.Context, event telemetry.Event) error
}

// Config configures an Agent.
type Config struct {
	// Registration is the agent's identity. AppType selects the anomaly
	// catalog and metrics profile. An empty InstanceID defaults to
	// DefaultInstanceID(PodName). AppName and PodName are required.
	Registration telemetry.Registration

	// Registrar and Sink are usually the same collectorclient.Client.
	// Required.
	Registrar Registrar
	Sink      Sink

	// Probability is the per-tick chance of emitting an event, clamped
	// to [0, 1]. Zero never emits; callers wanting the default pass
	// anomaly.DefaultProbability.
	Probability float64

	// MetricsPrefix prefixes every metric name. Defaults to the app
	// type.
	MetricsPrefix string

	// Metrics receives the agent's collectors. Defaults to a private
	// registry nothing scrapes.
	Metrics prometheus.Registerer

	// Random drives the sampler and the generator. Defaults to a PCG
	// source seeded from the runtime's entropy.
	Random *rand.Rand

	// Clock defaults to clock.Real().
	Clock clock.Clock

	TickInterval        time.Duration
	RegistrationTimeout time.Duration
	SubmissionTimeout   time.Duration

	// Logger is required.
	Logger *slog.Logger
}

// Stats is a snapshot of an agent's tick counters.
type Stats struct {
	Ticks           uint64 `json:"ticks"`
	EventsGenerated uint64 `json:"events_generated"`
	EventsEmitted   uint64 `json:"events_emitted"`
	EventsFailed    uint64 `json:"events_failed"`
	MetricFailures  uint64 `json:"metric_failures"`
	TickPanics      uint64 `json:"tick_panics"`
}

// Agent is one producer instance. Create with New and start with Run.
//
// Thread-safe: State, Done, Stats, and Registration may be called
// concurrently with Run.
type Agent struct {
	registration        telemetry.Registration
	domain              telemetry.AppType
	registrar           Registrar
	sink                Sink
	probability         float64
	sampler             *sampler.Sampler
	generator           *anomaly.Generator
	recorder            *Recorder
	clock               clock.Clock
	tickInterval        time.Duration
	registrationTimeout time.Duration
	submissionTimeout   time.Duration
	logger              *slog.Logger

	state   atomic.Int32
	started atomic.Bool
	done    chan struct{}

	ticks           atomic.Uint64
	eventsGenerated atomic.Uint64
	eventsEmitted   atomic.Uint64
	eventsFailed    atomic.Uint64
	metricFailures  atomic.Uint64
	tickPanics      atomic.Uint64
}

// New validates config and returns an idle Agent.
func New(config Config) (*Agent, error) {
	if config.Logger == nil {
		panic("producer: Logger is required")
	}
	if config.Registrar == nil || config.Sink == nil {
		return nil, errors.New("producer: Registrar and Sink are required")
	}

	registration := config.Registration
	if registration.AppName == "" {
		return nil, errors.New("producer: app name is required")
	}
	if registration.PodName == "" {
		return nil, fmt.Errorf("producer: %s: pod name is required", registration.AppName)
	}
	if registration.InstanceID == "" {
		registration.InstanceID = DefaultInstanceID(registration.PodName)
	}
	registration.Endpoints = append([]string(nil), registration.Endpoints...)

	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	random := config.Random
	if random == nil {
		random = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	registerer := config.Metrics
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}
	prefix := config.MetricsPrefix
	if prefix == "" {
		prefix = string(registration.AppType)
	}

	domainSampler := sampler.New(registration.AppType, random, clk)
	recorder, err := NewRecorder(registerer, prefix, domainSampler.Profile())
	if err != nil {
		return nil, fmt.Errorf("producer: %s: %w", registration.InstanceID, err)
	}

	agent := &Agent{
		registration:        registration,
		domain:              registration.AppType,
		registrar:           config.Registrar,
		sink:                config.Sink,
		probability:         config.Probability,
		sampler:             domainSampler,
		generator:           anomaly.NewGenerator(random, clk),
		recorder:            recorder,
		clock:               clk,
		tickInterval:        durationOr(config.TickInterval, DefaultTickInterval),
		registrationTimeout: durationOr(config.RegistrationTimeout, DefaultRegistrationTimeout),
		submissionTimeout:   durationOr(config.SubmissionTimeout, DefaultSubmissionTimeout),
		logger:              config.Logger.With("instance_id", registration.InstanceID, "app_type", registration.AppType),
		done:                make(chan struct{}),
	}
	return agent, nil
}

func durationOr(value, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return value
}

// Registration returns the agent's identity, with InstanceID resolved.
func (a *Agent) Registration() telemetry.Registration {
	return a.registration
}

// State returns the current lifecycle phase.
func (a *Agent) State() State {
	return State(a.state.Load())
}

// Done is closed once Run has returned.
func (a *Agent) Done() <-chan struct{} {
	return a.done
}

// Stats returns the agent's counters.
func (a *Agent) Stats() Stats {
	return Stats{
		Ticks:           a.ticks.Load(),
		EventsGenerated: a.eventsGenerated.Load(),
		EventsEmitted:   a.eventsEmitted.Load(),
		EventsFailed:    a.eventsFailed.Load(),
		MetricFailures:  a.metricFailures.Load(),
		TickPanics:      a.tickPanics.Load(),
	}
}

func (a *Agent) setState(state State) {
	a.state.Store(int32(state))
}

// Run registers once and then ticks until ctx is cancelled. A failed
// registration is logged and the agent runs anyway. Run returns nil on
// cancellation; it returns an error only when called a second time.
func (a *Agent) Run(ctx context.Context) error {
	if !a.started.CompareAndSwap(false, true) {
		return errors.New("producer: agent already started")
	}
	defer close(a.done)
	defer a.setState(StateStopped)

	a.setState(StateRegistering)
	if err := Register(ctx, a.registrar, a.registration, a.registrationTimeout); err != nil {
		a.logger.Warn("registration failed, continuing unregistered", "error", err)
	} else {
		a.logger.Info("registered with collector",
			"app_name", a.registration.AppName,
			"pod_name", a.registration.PodName,
		)
	}

	a.setState(StateRunning)
	ticker := a.clock.NewTicker(a.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.drain()
			return nil
		case <-ticker.C:
			// A tick queued while the previous one was running can be
			// selected after cancellation.
			if ctx.Err() != nil {
				a.drain()
				return nil
			}
			a.tick(ctx)
		}
	}
}

func (a *Agent) drain() {
	a.setState(StateDraining)
	stats := a.Stats()
	a.logger.Info("producer stopping",
		"ticks", stats.Ticks,
		"events_emitted", stats.EventsEmitted,
		"events_failed", stats.EventsFailed,
	)
}

// tick runs one sample-and-maybe-emit cycle. The submission context is
// detached from ctx so a tick already underway when ctx is cancelled
// still delivers its event, bounded by the submission timeout.
func (a *Agent) tick(ctx context.Context) {
	a.ticks.Add(1)
	defer func() {
		if recovered := recover(); recovered != nil {
			a.tickPanics.Add(1)
			a.logger.Error("tick panicked", "panic", recovered)
		}
	}()

	snapshot := a.sampler.Sample()
	if err := a.recorder.Record(snapshot); err != nil {
		a.metricFailures.Add(1)
		a.logger.Warn("recording metrics", "error", err)
	}

	if !a.generator.ShouldFire(a.probability) {
		return
	}

	event := a.generator.Generate(a.domain)
	a.stamp(&event)
	a.eventsGenerated.Add(1)
	a.recorder.CountEvent(event)

	submitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.submissionTimeout)
	defer cancel()
	if err := a.sink.SubmitEvent(submitCtx, event); err != nil {
		a.eventsFailed.Add(1)
		a.logger.Warn("submitting event",
			"event_type", event.EventType,
			"severity", event.Severity,
			"error", err,
		)
		return
	}
	a.eventsEmitted.Add(1)
	a.logger.Debug("event submitted", "event_type", event.EventType, "severity", event.Severity)
}

// stamp adds the source identity fields to event.
func (a *Agent) stamp(event *telemetry.Event) {
	fields := make(map[string]any, len(event.Fields)+5)
	for key, value := range event.Fields {
		fields[key] = value
	}
	fields[telemetry.FieldAppName] = a.registration.AppName
	fields[telemetry.FieldAppType] = string(a.registration.AppType)
	fields[telemetry.FieldPodName] = a.registration.PodName
	fields[telemetry.FieldInstanceID] = a.registration.InstanceID
	fields[telemetry.FieldNamespace] = a.registration.Namespace
	event.Fields = fields
}
