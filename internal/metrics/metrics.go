package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	SearchRequestsTotal   *prometheus.CounterVec
	SearchRequestDuration *prometheus.HistogramVec

	WatchRunsTotal      *prometheus.CounterVec
	ArticlesStoredTotal prometheus.Counter
}

func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the collectors on the given registerer. Tests use
// a private registry so a test binary can build more than one Metrics.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guardian_bot_requests_total",
				Help: "Total number of bot requests processed",
			},
			[]string{"type", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "guardian_bot_request_duration_seconds",
				Help:    "Bot request duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"type"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "guardian_bot_requests_in_flight",
				Help: "Number of bot requests currently being processed",
			},
		),

		SearchRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guardian_bot_search_requests_total",
				Help: "Total number of content API requests",
			},
			[]string{"endpoint", "status"},
		),
		SearchRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "guardian_bot_search_request_duration_seconds",
				Help:    "Content API request duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
			},
			[]string{"endpoint"},
		),

		WatchRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guardian_bot_watch_runs_total",
				Help: "Total number of watch check runs",
			},
			[]string{"status"},
		),
		ArticlesStoredTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "guardian_bot_articles_stored_total",
				Help: "Total number of new articles recorded by watches",
			},
		),
	}

	return m
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func (m *Metrics) RecordRequest(reqType, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(reqType, status).Inc()
	m.RequestDuration.WithLabelValues(reqType).Observe(duration.Seconds())
}

func (m *Metrics) RecordSearchRequest(endpoint, status string, duration time.Duration) {
	m.SearchRequestsTotal.WithLabelValues(endpoint, status).Inc()
	m.SearchRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *Metrics) RecordWatchRun(status string) {
	m.WatchRunsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordArticlesStored(count int) {
	m.ArticlesStoredTotal.Add(float64(count))
}

func (m *Metrics) IncRequestsInFlight() {
	m.RequestsInFlight.Inc()
}

func (m *Metrics) DecRequestsInFlight() {
	m.RequestsInFlight.Dec()
}
