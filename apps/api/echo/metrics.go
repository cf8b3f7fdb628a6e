package echoapi

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// refresh results
const (
	RefreshOK    = "ok"
	RefreshStale = "stale"
	RefreshError = "error"
)

// Metrics holds the collectors exposed under /metrics.
type Metrics struct {
	registry       *prometheus.Registry
	reportDuration *prometheus.HistogramVec
	refreshes      *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		reportDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "masomo",
			Name:      "report_duration_seconds",
			Help:      "Time spent computing a report.",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		}, []string{"kind"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "masomo",
			Name:      "snapshot_refresh_total",
			Help:      "Snapshot refreshes by result.",
		}, []string{"result"}),
	}
	m.registry.MustRegister(
		m.reportDuration,
		m.refreshes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveReport(kind string, elapsed time.Duration) {
	m.reportDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

func (m *Metrics) CountRefresh(result string) {
	m.refreshes.WithLabelValues(result).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
