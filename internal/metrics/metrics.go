// Package metrics records discovery run statistics in a Prometheus
// registry. The registry is written once per run to a node_exporter
// textfile; there is no listener.
package metrics

import (
	"errors"
	"time"

	"github.com/nagyistge/manta-madtom/internal/model"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "checker_hosts"

// Outcome labels for directory requests.
const (
	OutcomeOK        = "ok"
	OutcomeNotFound  = "not_found"
	OutcomeTransient = "transient"
	OutcomeError     = "error"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	registry    *prometheus.Registry
	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	retries     *prometheus.CounterVec
	stages      *prometheus.GaugeVec
	hosts       *prometheus.GaugeVec
	lastSuccess prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "directory_requests_total",
			Help:      "Requests made to inventory services, by outcome.",
		}, []string{"service", "op", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "directory_request_duration_seconds",
			Help:      "Inventory service request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service", "op"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transient_retries_total",
			Help:      "Lookups retried after a transient fault.",
		}, []string{"service"}),
		stages: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall time of each discovery stage in the last run.",
		}, []string{"stage"}),
		hosts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "hosts",
			Help:      "Hosts in the last generated inventory.",
		}, []string{"kind", "resolved"}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time the last inventory was written.",
		}),
	}
	m.registry.MustRegister(m.requests, m.latency, m.retries, m.stages, m.hosts, m.lastSuccess)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveRequest records one inventory service round trip.
func (m *Metrics) ObserveRequest(service, op string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(service, op, Outcome(err)).Inc()
	m.latency.WithLabelValues(service, op).Observe(d.Seconds())
}

// ObserveRetry records a retried lookup.
func (m *Metrics) ObserveRetry(service string) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(service).Inc()
}

// ObserveStage records how long a discovery stage took.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stages.WithLabelValues(stage).Set(d.Seconds())
}

// ObserveHosts records the shape of a generated inventory.
func (m *Metrics) ObserveHosts(hosts []model.Host) {
	if m == nil {
		return
	}
	m.hosts.Reset()
	for _, h := range hosts {
		kind := "instance"
		if h.IsAgent() {
			kind = model.HostTypeAgent
		}
		resolved := "true"
		if h.IP == nil {
			resolved = "false"
		}
		m.hosts.WithLabelValues(kind, resolved).Inc()
	}
}

// MarkSuccess records the time an inventory was written.
func (m *Metrics) MarkSuccess(t time.Time) {
	if m == nil {
		return
	}
	m.lastSuccess.Set(float64(t.Unix()))
}

// WriteTextfile writes the registry in text exposition format, atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

// Outcome classifies a request error into an outcome label.
func Outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	var nf interface{ NotFound() bool }
	if errors.As(err, &nf) && nf.NotFound() {
		return OutcomeNotFound
	}
	var tr interface{ Transient() bool }
	if errors.As(err, &tr) && tr.Transient() {
		return OutcomeTransient
	}
	return OutcomeError
}
