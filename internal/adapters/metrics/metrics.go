package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they like.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	UpstreamRequestDuration *prometheus.HistogramVec
	SyncRuns                *prometheus.CounterVec
	SyncDuration            prometheus.Histogram
	SyncRecords             prometheus.Gauge
	SyncLastSuccess         prometheus.Gauge
	PriceCacheLookups       *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		UpstreamRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "upstream_request_duration_seconds",
				Help:    "Uniswap subgraph request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "status"},
		),
		SyncRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "token_sync_runs_total",
				Help: "Token sync runs by outcome",
			},
			[]string{"outcome"},
		),
		SyncDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "token_sync_duration_seconds",
				Help:    "Duration of one token sync run",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
			}),
		SyncRecords: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "token_sync_records",
				Help: "Records written by the last successful sync",
			}),
		SyncLastSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "token_sync_last_success_timestamp_seconds",
				Help: "Unix time of the last successful sync",
			}),
		PriceCacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "price_cache_lookups_total",
				Help: "ETH price cache lookups by result",
			},
			[]string{"result"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.UpstreamRequestDuration,
		m.SyncRuns,
		m.SyncDuration,
		m.SyncRecords,
		m.SyncLastSuccess,
		m.PriceCacheLookups,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveUpstream(operation, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamRequestDuration.WithLabelValues(operation, status).Observe(d.Seconds())
}

// ObserveSync records a finished run. records is only applied on success.
func (m *Metrics) ObserveSync(ok bool, records int, d time.Duration, finished time.Time) {
	if m == nil {
		return
	}
	m.SyncDuration.Observe(d.Seconds())
	if !ok {
		m.SyncRuns.WithLabelValues("failure").Inc()
		return
	}
	m.SyncRuns.WithLabelValues("success").Inc()
	m.SyncRecords.Set(float64(records))
	m.SyncLastSuccess.Set(float64(finished.Unix()))
}

// ObservePriceLookup takes one of hit, miss or error.
func (m *Metrics) ObservePriceLookup(result string) {
	if m == nil {
		return
	}
	m.PriceCacheLookups.WithLabelValues(result).Inc()
}
