package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mikrotik_chat"

// Metrics methods are safe to call on a nil receiver.
type Metrics struct {
	registry          *prometheus.Registry
	turns             *prometheus.CounterVec
	translationErrors *prometheus.CounterVec
	routerQueries     *prometheus.CounterVec
	stageDuration     *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		turns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "turns_total",
				Help:      "Chat turns processed, by outcome",
			},
			[]string{"outcome"},
		),
		translationErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "translation_errors_total",
				Help:      "Failed translations, by error kind",
			},
			[]string{"kind"},
		),
		routerQueries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "router_queries_total",
				Help:      "RouterOS queries issued, by status",
			},
			[]string{"status"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stage_duration_seconds",
				Help:      "Duration of pipeline stages",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
	}

	m.registry.MustRegister(m.turns, m.translationErrors, m.routerQueries, m.stageDuration)
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) TurnCompleted(outcome string) {
	if m == nil {
		return
	}
	m.turns.WithLabelValues(outcome).Inc()
}

func (m *Metrics) TranslationFailed(kind string) {
	if m == nil {
		return
	}
	m.translationErrors.WithLabelValues(kind).Inc()
}

func (m *Metrics) RouterQuery(status string) {
	if m == nil {
		return
	}
	m.routerQueries.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveStage(stage string, started time.Time) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(time.Since(started).Seconds())
}
