// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/fleetwatch/lib/anomaly"
	"github.com/bureau-foundation/fleetwatch/lib/codec"
	"github.com/bureau-foundation/fleetwatch/lib/producer"
	"github.com/bureau-foundation/fleetwatch/lib/schema/telemetry"
)

// EnvironmentVariable names the variable Load reads the config path
// from.
const EnvironmentVariable = "FLEETWATCH_CONFIG"

// PlaceholderToken is the bearer token shipped in example configs.
// Production refuses to start with it.
const PlaceholderToken = "change-me"

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Staging is for pre-production testing.
	Staging Environment = "staging"
	// Production is for production deployments.
	Production Environment = "production"
)

// Config is the configuration shared by the collector and producer
// binaries. Each binary reads its own section.
type Config struct {
	// Environment identifies the deployment type (development, staging, production).
	Environment Environment `yaml:"environment"`

	Log       LogConfig       `yaml:"log"`
	Collector CollectorConfig `yaml:"collector"`
	Producer  ProducerConfig  `yaml:"producer"`

	// Per-environment overrides, applied after the base config is
	// loaded.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
// Producer instances are not overridable.
type ConfigOverrides struct {
	Log       *LogConfig       `yaml:"log,omitempty"`
	Collector *CollectorConfig `yaml:"collector,omitempty"`
	Producer  *ProducerConfig  `yaml:"producer,omitempty"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	// Level is debug, info, warn, or error. Default: info
	Level string `yaml:"level"`

	// Format is json or text. Default: json. Production forces json.
	Format string `yaml:"format"`
}

// CollectorConfig configures the collector service.
type CollectorConfig struct {
	// Listen is the HTTP listen address. Default: :8000
	Listen string `yaml:"listen"`

	// BearerToken authenticates every /api/ request. Required.
	BearerToken string `yaml:"bearer_token"`

	// EventCapacity bounds the event store. Default: 10000
	EventCapacity int `yaml:"event_capacity"`

	// MaxBodyBytes bounds request bodies after decompression.
	// Default: 4 MiB
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// ShutdownTimeout bounds graceful shutdown. Default: 10s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ProducerConfig configures the producer process and its agents.
type ProducerConfig struct {
	// CollectorURL is the collector's base URL. Default: http://localhost:8000
	CollectorURL string `yaml:"collector_url"`

	// BearerToken is sent on every collector request. Required.
	BearerToken string `yaml:"bearer_token"`

	// Listen serves the producer process's /health, /ready, and
	// /metrics. Empty disables it. Default: :9100
	Listen string `yaml:"listen"`

	TickInterval        time.Duration `yaml:"tick_interval"`
	RegistrationTimeout time.Duration `yaml:"registration_timeout"`
	SubmissionTimeout   time.Duration `yaml:"submission_timeout"`

	// Encoding is json or cbor. Default: json
	Encoding string `yaml:"encoding"`

	// Compression is none, zstd, or lz4. Default: none
	Compression string `yaml:"compression"`

	Instances []InstanceConfig `yaml:"instances"`
}

// InstanceConfig describes one simulated application.
type InstanceConfig struct {
	AppName   string   `yaml:"app_name"`
	AppType   string   `yaml:"app_type"`
	Namespace string   `yaml:"namespace"`
	PodName   string   `yaml:"pod_name"`
	NodeName  string   `yaml:"node_name"`
	IPAddress string   `yaml:"ip_address"`
	Endpoints []string `yaml:"endpoints"`
	Version   string   `yaml:"version"`

	// InstanceID defaults to <pod_name>-<pid>.
	InstanceID string `yaml:"instance_id"`

	// AnomalyProbability is the per-tick emission chance.
	// Default: 0.1
	AnomalyProbability *float64 `yaml:"anomaly_probability"`

	// MetricsPrefix prefixes the instance's metric names. Default: the
	// app type.
	MetricsPrefix string `yaml:"metrics_prefix"`

	// Seed makes the instance's random stream reproducible. Unset seeds
	// from entropy.
	Seed *uint64 `yaml:"seed"`
}

// EffectiveInstanceID returns InstanceID, or the ID derived from
// PodName when unset.
func (i InstanceConfig) EffectiveInstanceID() string {
	if i.InstanceID != "" {
		return i.InstanceID
	}
	return producer.DefaultInstanceID(i.PodName)
}

// Registration returns the instance's identity with the instance ID
// resolved. AppType must already have passed validation.
func (i InstanceConfig) Registration() telemetry.Registration {
	appType, _ := telemetry.ParseAppType(i.AppType)
	return telemetry.Registration{
		InstanceID: i.EffectiveInstanceID(),
		AppName:    i.AppName,
		AppType:    appType,
		Namespace:  i.Namespace,
		PodName:    i.PodName,
		NodeName:   i.NodeName,
		IPAddress:  i.IPAddress,
		Endpoints:  append([]string(nil), i.Endpoints...),
		Version:    i.Version,
	}
}

// Probability returns AnomalyProbability, or the default when unset.
func (i InstanceConfig) Probability() float64 {
	if i.AnomalyProbability == nil {
		return anomaly.DefaultProbability
	}
	return *i.AnomalyProbability
}

// Default returns the default configuration. It is the base the config
// file is decoded over; the file itself is still required.
func Default() *Config {
	return &Config{
		Environment: Development,
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Collector: CollectorConfig{
			Listen:          ":8000",
			EventCapacity:   10000,
			MaxBodyBytes:    4 << 20,
			ShutdownTimeout: 10 * time.Second,
		},
		Producer: ProducerConfig{
			CollectorURL:        "http://localhost:8000",
			Listen:              ":9100",
			TickInterval:        5 * time.Second,
			RegistrationTimeout: 10 * time.Second,
			SubmissionTimeout:   5 * time.Second,
			Encoding:            "json",
			Compression:         "none",
		},
	}
}

// Load loads configuration from the file named by FLEETWATCH_CONFIG.
// There are no fallbacks: if the variable is not set, this fails.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your fleetwatch config file, or use --config flag", EnvironmentVariable)
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from path. Files ending in .json or
// .jsonc are read as JSON with comments; everything else as YAML.
// Environment overrides are applied, then variables are expanded.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	return cfg, nil
}

// loadFile decodes one file over the current config. JSONC is stripped
// to plain JSON, which the YAML decoder accepts, so both formats share
// the yaml tags and duration parsing.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		data = jsonc.ToJSON(data)
	}

	return yaml.Unmarshal(data, c)
}

// applyEnvironmentOverrides applies the section matching Environment.
// Production always logs JSON.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
	}

	if overrides != nil {
		if overrides.Log != nil {
			setString(&c.Log.Level, overrides.Log.Level)
			setString(&c.Log.Format, overrides.Log.Format)
		}

		if overrides.Collector != nil {
			setString(&c.Collector.Listen, overrides.Collector.Listen)
			setString(&c.Collector.BearerToken, overrides.Collector.BearerToken)
			if overrides.Collector.EventCapacity != 0 {
				c.Collector.EventCapacity = overrides.Collector.EventCapacity
			}
			if overrides.Collector.MaxBodyBytes != 0 {
				c.Collector.MaxBodyBytes = overrides.Collector.MaxBodyBytes
			}
			setDuration(&c.Collector.ShutdownTimeout, overrides.Collector.ShutdownTimeout)
		}

		if overrides.Producer != nil {
			setString(&c.Producer.CollectorURL, overrides.Producer.CollectorURL)
			setString(&c.Producer.BearerToken, overrides.Producer.BearerToken)
			setString(&c.Producer.Listen, overrides.Producer.Listen)
			setDuration(&c.Producer.TickInterval, overrides.Producer.TickInterval)
			setDuration(&c.Producer.RegistrationTimeout, overrides.Producer.RegistrationTimeout)
			setDuration(&c.Producer.SubmissionTimeout, overrides.Producer.SubmissionTimeout)
			setString(&c.Producer.Encoding, overrides.Producer.Encoding)
			setString(&c.Producer.Compression, overrides.Producer.Compression)
		}
	}

	if c.Environment == Production {
		c.Log.Format = "json"
	}
}

func setString(target *string, value string) {
	if value != "" {
		*target = value
	}
}

func setDuration(target *time.Duration, value time.Duration) {
	if value != 0 {
		*target = value
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} in the fields that
// carry secrets, addresses, and pod identity.
func (c *Config) expandVariables() {
	c.Collector.Listen = expandVars(c.Collector.Listen)
	c.Collector.BearerToken = expandVars(c.Collector.BearerToken)
	c.Producer.CollectorURL = expandVars(c.Producer.CollectorURL)
	c.Producer.BearerToken = expandVars(c.Producer.BearerToken)
	c.Producer.Listen = expandVars(c.Producer.Listen)

	for i := range c.Producer.Instances {
		instance := &c.Producer.Instances[i]
		instance.Namespace = expandVars(instance.Namespace)
		instance.PodName = expandVars(instance.PodName)
		instance.NodeName = expandVars(instance.NodeName)
		instance.IPAddress = expandVars(instance.IPAddress)
		instance.InstanceID = expandVars(instance.InstanceID)
	}
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		if len(parts) >= 3 {
			return parts[2]
		}
		return ""
	})
}

// Validate checks the environment and log sections.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be debug, info, warn, or error, got %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or text, got %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// ValidateCollector checks everything the collector binary reads.
func (c *Config) ValidateCollector() error {
	errs := []error{c.Validate()}
	collector := c.Collector

	if collector.Listen == "" {
		errs = append(errs, errors.New("collector.listen is required"))
	}
	errs = append(errs, c.validateToken("collector.bearer_token", collector.BearerToken))
	if collector.EventCapacity < 1 {
		errs = append(errs, fmt.Errorf("collector.event_capacity must be positive, got %d", collector.EventCapacity))
	}
	if collector.MaxBodyBytes < 1 {
		errs = append(errs, fmt.Errorf("collector.max_body_bytes must be positive, got %d", collector.MaxBodyBytes))
	}
	if collector.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("collector.shutdown_timeout must be positive, got %s", collector.ShutdownTimeout))
	}

	return errors.Join(errs...)
}

// ValidateProducer checks everything the producer binary reads.
func (c *Config) ValidateProducer() error {
	errs := []error{c.Validate()}
	producer := c.Producer

	if parsed, err := url.Parse(producer.CollectorURL); err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		errs = append(errs, fmt.Errorf("producer.collector_url must be an http or https URL, got %q", producer.CollectorURL))
	}
	errs = append(errs, c.validateToken("producer.bearer_token", producer.BearerToken))
	for name, value := range map[string]time.Duration{
		"producer.tick_interval":        producer.TickInterval,
		"producer.registration_timeout": producer.RegistrationTimeout,
		"producer.submission_timeout":   producer.SubmissionTimeout,
	} {
		if value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", name, value))
		}
	}
	if _, err := codec.ParseFormat(producer.Encoding); err != nil {
		errs = append(errs, fmt.Errorf("producer.encoding: %w", err))
	}
	if _, err := codec.ParseCompression(producer.Compression); err != nil {
		errs = append(errs, fmt.Errorf("producer.compression: %w", err))
	}

	if len(producer.Instances) == 0 {
		errs = append(errs, errors.New("producer.instances must list at least one instance"))
	}
	seen := make(map[string]int)
	for i, instance := range producer.Instances {
		field := fmt.Sprintf("producer.instances[%d]", i)
		if instance.AppName == "" {
			errs = append(errs, fmt.Errorf("%s.app_name is required", field))
		}
		if instance.PodName == "" {
			errs = append(errs, fmt.Errorf("%s.pod_name is required", field))
		}
		if _, err := telemetry.ParseAppType(instance.AppType); err != nil {
			errs = append(errs, fmt.Errorf("%s.app_type: %w", field, err))
		}
		if p := instance.Probability(); p < 0 || p > 1 {
			errs = append(errs, fmt.Errorf("%s.anomaly_probability must be in [0, 1], got %v", field, p))
		}
		if instance.InstanceID == "" && instance.PodName == "" {
			continue
		}
		id := instance.EffectiveInstanceID()
		if previous, ok := seen[id]; ok {
			errs = append(errs, fmt.Errorf("%s.instance_id %q duplicates producer.instances[%d]", field, id, previous))
		} else {
			seen[id] = i
		}
	}

	return errors.Join(errs...)
}

func (c *Config) validateToken(field, token string) error {
	if token == "" {
		return fmt.Errorf("%s is required", field)
	}
	if c.Environment == Production && token == PlaceholderToken {
		return fmt.Errorf("%s: the placeholder token is not allowed in production", field)
	}
	return nil
}
