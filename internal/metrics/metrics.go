// Package metrics exposes Prometheus counters for assertions and closure
// runs. Every collector lives on a registry owned by Metrics so tests and
// multiple servers never share global state.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/HendryAvila/eudoxa/internal/eudoxa"
)

const namespace = "eudoxa"

// Outcome labels.
const (
	OutcomeConsistent   = "consistent"
	OutcomeContradicted = "contradicted"
	OutcomeRejected     = "rejected"
)

// Closure result labels.
const (
	ClosureConverged = "converged"
	ClosureCollision = "collision"
	ClosureTruncated = "truncated"
)

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	reg *prometheus.Registry

	assertions  *prometheus.CounterVec
	collisions  *prometheus.CounterVec
	closureRuns *prometheus.CounterVec
	derived     prometheus.Counter
	closureTime prometheus.Histogram
}

// New creates the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		// Labels: op (level_relation, diff_relation, set, import), outcome
		assertions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "matrix",
			Name:      "assertions_total",
			Help:      "Relation assertions by operation and outcome",
		}, []string{"op", "outcome"}),
		// Labels: source (assertion, closure)
		collisions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "matrix",
			Name:      "collisions_total",
			Help:      "Fact collisions detected",
		}, []string{"source"}),
		closureRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "closure",
			Name:      "runs_total",
			Help:      "Closure runs by result",
		}, []string{"result"}),
		derived: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "closure",
			Name:      "derived_facts_total",
			Help:      "Facts added by closure runs",
		}),
		closureTime: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "closure",
			Name:      "duration_seconds",
			Help:      "Closure run duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}),
	}
}

// Registry returns the owned registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// ObserveAssertion records one relation assertion. err is the validation
// error, if any; validation failures never reach the matrix.
func (m *Metrics) ObserveAssertion(op string, out eudoxa.Outcome, err error) {
	if m == nil {
		return
	}
	switch {
	case err != nil:
		m.assertions.WithLabelValues(op, OutcomeRejected).Inc()
	case out.Consistent():
		m.assertions.WithLabelValues(op, OutcomeConsistent).Inc()
	default:
		m.assertions.WithLabelValues(op, OutcomeContradicted).Inc()
		m.collisions.WithLabelValues("assertion").Add(float64(len(out.Collisions)))
	}
}

// ObserveClosure records a closure run.
func (m *Metrics) ObserveClosure(res *eudoxa.ClosureResult, took time.Duration) {
	if m == nil || res == nil {
		return
	}
	result := ClosureTruncated
	switch {
	case !res.Consistent():
		result = ClosureCollision
		m.collisions.WithLabelValues("closure").Add(float64(len(res.Collisions)))
	case res.Converged:
		result = ClosureConverged
	}
	m.closureRuns.WithLabelValues(result).Inc()
	m.derived.Add(float64(len(res.Adds)))
	m.closureTime.Observe(took.Seconds())
}
