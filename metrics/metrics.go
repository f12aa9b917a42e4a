// Package metrics tracks aggregate statistics for the liveness service using
// lock-free atomic counters for hot-path bookkeeping, mirrored into
// Prometheus collectors for the /metrics scrape endpoint.
package metrics

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds both the atomic in-process counters (readable through
// Snapshot) and the Prometheus collectors (read by /metrics). All
// counters are accessed exclusively through atomic operations or
// Prometheus's own internal locking, so there is no contention on the
// request hot path.
type Metrics struct {
	challengesIssued uint64
	verifiesTotal    uint64
	verifiesRejected uint64

	startTime time.Time

	promChallenges prometheus.Counter
	promVerdicts   *prometheus.CounterVec
	promRejects    *prometheus.CounterVec
	promAnalysis   prometheus.Histogram
	promValid      prometheus.Histogram
}

// New creates a Metrics instance registered against a fresh Prometheus
// registry and returns both. Callers mount the registry's handler at
// /metrics.
func New() (*Metrics, *prometheus.Registry) {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		startTime: time.Now(),
		promChallenges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clnp_challenges_issued_total",
			Help: "Number of challenges issued across both modes.",
		}),
		promVerdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clnp_verify_verdicts_total",
			Help: "Verify requests by verdict class.",
		}, []string{"mode", "verdict_class"}),
		promRejects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clnp_verify_rejects_total",
			Help: "Verify requests rejected by error code.",
		}, []string{"code"}),
		promAnalysis: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "clnp_analysis_duration_seconds",
			Help:    "Wall-clock time spent running the analysis pipelines per verify.",
			Buckets: prometheus.DefBuckets,
		}),
		promValid: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "clnp_analysis_valid_pipelines",
			Help:    "Number of pipelines that returned valid=true per verify.",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 6, 7, 8},
		}),
	}

	reg.MustRegister(m.promChallenges, m.promVerdicts, m.promRejects, m.promAnalysis, m.promValid)
	return m, reg
}

// Handler returns the HTTP handler serving Prometheus exposition format for
// reg, the registry returned alongside this Metrics by New.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// ChallengeIssued records that a challenge (standalone or embed) was created.
func (m *Metrics) ChallengeIssued() {
	atomic.AddUint64(&m.challengesIssued, 1)
	m.promChallenges.Inc()
}

// VerifyAccepted records a verify request that ran to completion, along with
// its mode, verdict class, analysis duration, and valid-pipeline count.
func (m *Metrics) VerifyAccepted(mode, verdictClass string, duration time.Duration, validPipelines int) {
	atomic.AddUint64(&m.verifiesTotal, 1)
	m.promVerdicts.WithLabelValues(mode, verdictClass).Inc()
	m.promAnalysis.Observe(duration.Seconds())
	m.promValid.Observe(float64(validPipelines))
}

// VerifyRejected records a verify request that failed validation before
// analysis ran, tagged with the error code that rejected it.
func (m *Metrics) VerifyRejected(code string) {
	atomic.AddUint64(&m.verifiesRejected, 1)
	m.promRejects.WithLabelValues(code).Inc()
}

// Snapshot returns the current in-process counters.
func (m *Metrics) Snapshot() (challenges, verifies, rejected uint64) {
	return atomic.LoadUint64(&m.challengesIssued),
		atomic.LoadUint64(&m.verifiesTotal),
		atomic.LoadUint64(&m.verifiesRejected)
}

// UptimeSeconds returns the number of seconds since this Metrics instance
// was created, i.e. since process startup.
func (m *Metrics) UptimeSeconds() float64 {
	return time.Since(m.startTime).Seconds()
}
