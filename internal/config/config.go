package config

import "time"

// Config holds the process configuration, parsed from the environment with
// github.com/caarlos0/env. Banner and goal presets live in YAML under PresetDir.
type Config struct {
	// Server
	HTTPPort    int    `env:"ORBSIM_HTTP_PORT" envDefault:"8000"`
	GRPCPort    int    `env:"ORBSIM_GRPC_PORT" envDefault:"6565"`
	MetricsPort int    `env:"ORBSIM_METRICS_PORT" envDefault:"8080"`
	Environment string `env:"ORBSIM_ENV" envDefault:"dev"`
	ServiceName string `env:"ORBSIM_SERVICE_NAME" envDefault:"orbsim"`
	LogLevel    string `env:"ORBSIM_LOG_LEVEL" envDefault:"info"`

	// Presets
	PresetDir     string        `env:"ORBSIM_PRESET_DIR"` // empty: built-in banners only
	WatchInterval time.Duration `env:"ORBSIM_WATCH_INTERVAL" envDefault:"5s"`
	CatalogPath   string        `env:"ORBSIM_CATALOG"` // empty: bundled orb store

	// Simulation limits
	DefaultTrials int           `env:"ORBSIM_DEFAULT_TRIALS" envDefault:"10000"`
	MaxTrials     int           `env:"ORBSIM_MAX_TRIALS" envDefault:"200000"`
	Workers       int           `env:"ORBSIM_WORKERS" envDefault:"0"` // 0: GOMAXPROCS
	MaxPulls      int           `env:"ORBSIM_MAX_PULLS" envDefault:"100000"`
	RunTimeout    time.Duration `env:"ORBSIM_RUN_TIMEOUT" envDefault:"60s"`

	// Telemetry
	OtelEndpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"` // empty: tracing disabled
	TraceSampleRate float64 `env:"OTEL_TRACES_SAMPLER_ARG" envDefault:"1"`
}
