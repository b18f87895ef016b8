package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Load reads configuration from environment variables.
// A .env file in the working directory is applied first when present; variables
// already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	} else {
		logrus.Debug("loaded environment variables from .env file")
	}
	return Parse()
}

// Parse reads the current environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config from environment: %w", err)
	}
	return cfg, nil
}

// Validate checks ranges and cross-field constraints.
func (c *Config) Validate() error {
	var errs []error
	for name, port := range map[string]int{
		"ORBSIM_HTTP_PORT":    c.HTTPPort,
		"ORBSIM_GRPC_PORT":    c.GRPCPort,
		"ORBSIM_METRICS_PORT": c.MetricsPort,
	} {
		if port < 1 || port > 65535 {
			errs = append(errs, fmt.Errorf("invalid %s: %d (must be 1-65535)", name, port))
		}
	}
	if c.DefaultTrials < 1 {
		errs = append(errs, fmt.Errorf("invalid ORBSIM_DEFAULT_TRIALS: %d (must be >= 1)", c.DefaultTrials))
	}
	if c.MaxTrials < c.DefaultTrials {
		errs = append(errs, fmt.Errorf("invalid ORBSIM_MAX_TRIALS: %d (must be >= ORBSIM_DEFAULT_TRIALS %d)", c.MaxTrials, c.DefaultTrials))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("invalid ORBSIM_WORKERS: %d (must be >= 0)", c.Workers))
	}
	if c.MaxPulls < 1 {
		errs = append(errs, fmt.Errorf("invalid ORBSIM_MAX_PULLS: %d (must be >= 1)", c.MaxPulls))
	}
	if c.RunTimeout <= 0 {
		errs = append(errs, fmt.Errorf("invalid ORBSIM_RUN_TIMEOUT: %s (must be > 0)", c.RunTimeout))
	}
	if c.TraceSampleRate <= 0 || c.TraceSampleRate > 1 {
		errs = append(errs, fmt.Errorf("invalid OTEL_TRACES_SAMPLER_ARG: %v (must be in (0,1])", c.TraceSampleRate))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid ORBSIM_LOG_LEVEL: %w", err))
	}
	return errors.Join(errs...)
}

// Level returns the configured log level, falling back to info.
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
