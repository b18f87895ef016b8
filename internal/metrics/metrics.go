package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the simulator's Prometheus collectors on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	simulations *prometheus.CounterVec
	trials      *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	inflight    prometheus.Gauge
	reloads     prometheus.Counter
}

// New creates the collectors and registers them with Go runtime and process metrics.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		simulations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orbsim_simulations_total",
			Help: "Simulation requests by banner, transport and outcome.",
		}, []string{"banner", "transport", "outcome"}),
		trials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orbsim_trials_total",
			Help: "Monte Carlo trials completed.",
		}, []string{"banner"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "orbsim_simulation_duration_seconds",
			Help:    "Wall time of a simulation run.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 14),
		}, []string{"banner"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orbsim_simulations_in_flight",
			Help: "Simulations currently running.",
		}),
		reloads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orbsim_preset_reloads_total",
			Help: "Preset cache invalidations triggered by file changes.",
		}),
	}
	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.simulations, m.trials, m.duration, m.inflight, m.reloads,
	)
	return m
}

// Outcome labels.
const (
	OutcomeOK          = "ok"
	OutcomeInvalid     = "invalid_config"
	OutcomeUnreachable = "unreachable"
	OutcomeError       = "error"
)

// Start marks a simulation as running; call the returned func with its result.
func (m *Metrics) Start(banner, transport string) func(outcome string, trials int) {
	if m == nil {
		return func(string, int) {}
	}
	m.inflight.Inc()
	start := time.Now()
	return func(outcome string, trials int) {
		m.inflight.Dec()
		m.simulations.WithLabelValues(banner, transport, outcome).Inc()
		if outcome == OutcomeOK {
			m.trials.WithLabelValues(banner).Add(float64(trials))
			m.duration.WithLabelValues(banner).Observe(time.Since(start).Seconds())
		}
	}
}

// PresetReloaded counts one preset cache invalidation.
func (m *Metrics) PresetReloaded() {
	if m != nil {
		m.reloads.Inc()
	}
}
