package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for Invocations.
const (
	OutcomeOK      = "ok"
	OutcomeFailed  = "failed"  // non-zero exit
	OutcomeSpawn   = "spawn"   // binary could not be started
	OutcomeSkipped = "skipped" // not sent to jpegtran
)

// Metrics holds the collectors for one batch run on a private registry.
type Metrics struct {
	Registry    *prometheus.Registry
	Invocations *prometheus.CounterVec
	Duration    prometheus.Histogram
	InputBytes  prometheus.Counter
	OutputBytes prometheus.Counter
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jpegtx",
			Name:      "invocations_total",
			Help:      "jpegtran invocations by outcome.",
		}, []string{"outcome"}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "jpegtx",
			Name:      "invocation_duration_seconds",
			Help:      "Wall time of jpegtran invocations.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		InputBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "jpegtx",
			Name:      "input_bytes_total",
			Help:      "Bytes of source JPEGs processed.",
		}),
		OutputBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "jpegtx",
			Name:      "output_bytes_total",
			Help:      "Bytes of JPEGs written.",
		}),
	}
	m.Registry.MustRegister(m.Invocations, m.Duration, m.InputBytes, m.OutputBytes)
	return m
}

// Observe records one finished invocation. Nil receivers are ignored so
// callers can run without metrics.
func (m *Metrics) Observe(outcome string, seconds float64, in, out int64) {
	if m == nil {
		return
	}
	m.Invocations.WithLabelValues(outcome).Inc()
	if outcome == OutcomeOK || outcome == OutcomeFailed {
		m.Duration.Observe(seconds)
	}
	m.InputBytes.Add(float64(in))
	m.OutputBytes.Add(float64(out))
}

// WriteTextfile writes the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
