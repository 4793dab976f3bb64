// Package config loads service settings from defaults, an optional YAML file
// and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure returned by Load.
var ErrInvalid = errors.New("invalid configuration")

// Environment variables read by Load.
const (
	EnvConfigFile      = "CALC_CONFIG"
	EnvAddr            = "CALC_ADDR"
	EnvServiceName     = "OTEL_SERVICE_NAME"
	EnvLogLevel        = "CALC_LOG_LEVEL"
	EnvShutdownTimeout = "CALC_SHUTDOWN_TIMEOUT"
	EnvSessionTTL      = "CALC_SESSION_TTL"
	EnvSweepInterval   = "CALC_SESSION_SWEEP_INTERVAL"
	EnvMaxSessions     = "CALC_MAX_SESSIONS"
	EnvOTLPEnabled     = "CALC_OTLP_ENABLED"
)

type Config struct {
	Addr            string        `yaml:"addr" validate:"required"`
	ServiceName     string        `yaml:"service_name" validate:"required"`
	LogLevel        string        `yaml:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
	Sessions        Sessions      `yaml:"sessions"`
	Telemetry       Telemetry     `yaml:"telemetry"`
}

// Sessions configures mounted calculator sessions.
type Sessions struct {
	TTL           time.Duration `yaml:"ttl" validate:"gte=0"`
	SweepInterval time.Duration `yaml:"sweep_interval" validate:"gt=0"`
	MaxSessions   int           `yaml:"max_sessions" validate:"gte=0"`
}

// Telemetry toggles OTLP export. Exporters read their endpoints from the
// standard OTEL_EXPORTER_OTLP_* variables.
type Telemetry struct {
	OTLPEnabled bool `yaml:"otlp_enabled"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:            ":8080",
		ServiceName:     "go-chi-keypad",
		LogLevel:        "info",
		ShutdownTimeout: 5 * time.Second,
		Sessions: Sessions{
			TTL:           30 * time.Minute,
			SweepInterval: time.Minute,
			MaxSessions:   10000,
		},
	}
}

var validate = validator.New()

// Load builds the configuration. path may be empty, in which case only
// defaults and the environment apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvAddr); ok {
		cfg.Addr = v
	}
	if v, ok := lookup(EnvServiceName); ok && v != "" {
		cfg.ServiceName = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		cfg.LogLevel = v
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{EnvShutdownTimeout, &cfg.ShutdownTimeout},
		{EnvSessionTTL, &cfg.Sessions.TTL},
		{EnvSweepInterval, &cfg.Sessions.SweepInterval},
	}
	for _, d := range durations {
		v, ok := lookup(d.key)
		if !ok {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalid, d.key, err)
		}
		*d.dst = parsed
	}

	if v, ok := lookup(EnvMaxSessions); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalid, EnvMaxSessions, err)
		}
		cfg.Sessions.MaxSessions = n
	}

	if v, ok := lookup(EnvOTLPEnabled); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalid, EnvOTLPEnabled, err)
		}
		cfg.Telemetry.OTLPEnabled = enabled
	}

	return nil
}
