// Package metrics exposes Prometheus collectors for sign-in, bootstrap and event fetches.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "calendar_viewer"

// Outcome label values.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeRejected = "rejected"
)

// Recorder receives orchestrator events. A nil *Metrics is a valid no-op Recorder.
type Recorder interface {
	SignIn(outcome string)
	SignOut()
	Bootstrap(outcome string)
	Fetch(outcome string, seconds float64)
}

type Metrics struct {
	registry   *prometheus.Registry
	signIns    *prometheus.CounterVec
	signOuts   prometheus.Counter
	bootstraps *prometheus.CounterVec
	fetches    *prometheus.CounterVec
	fetchTime  prometheus.Histogram
}

var _ Recorder = (*Metrics)(nil)

// New registers the collectors on a private registry, together with the Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		signIns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sign_ins_total",
			Help:      "Credentials received from the identity widget, by outcome.",
		}, []string{"outcome"}),
		signOuts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sign_outs_total",
			Help:      "Sign-outs performed.",
		}),
		bootstraps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "client_bootstraps_total",
			Help:      "Calendar API client bootstraps, by outcome.",
		}, []string{"outcome"}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_fetches_total",
			Help:      "Upcoming event fetches, by outcome.",
		}, []string{"outcome"}),
		fetchTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "event_fetch_duration_seconds",
			Help:      "Duration of upcoming event list requests.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.signIns, m.signOuts, m.bootstraps, m.fetches, m.fetchTime,
	)
	return m
}

func (m *Metrics) SignIn(outcome string) {
	if m == nil {
		return
	}
	m.signIns.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SignOut() {
	if m == nil {
		return
	}
	m.signOuts.Inc()
}

func (m *Metrics) Bootstrap(outcome string) {
	if m == nil {
		return
	}
	m.bootstraps.WithLabelValues(outcome).Inc()
}

// Fetch counts a fetch attempt. Rejected fetches never reached the API and are not timed.
func (m *Metrics) Fetch(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(outcome).Inc()
	if outcome != OutcomeRejected {
		m.fetchTime.Observe(seconds)
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
