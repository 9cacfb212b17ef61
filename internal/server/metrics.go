package server

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"scorekeeper/internal/rules"
	"scorekeeper/internal/store"
)

type Metrics struct {
	Appended    *prometheus.CounterVec
	Removed     prometheus.Counter
	Rejected    *prometheus.CounterVec
	Subscribers *prometheus.GaugeVec

	registry *prometheus.Registry
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Appended: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scorekeeper_events_appended_total",
			Help: "Events appended, by family.",
		}, []string{"family"}),
		Removed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scorekeeper_events_removed_total",
			Help: "Events removed from the head of a log.",
		}),
		Rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scorekeeper_events_rejected_total",
			Help: "Appends and removals that failed, by reason.",
		}, []string{"reason"}),
		Subscribers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "scorekeeper_live_subscribers",
			Help: "Connected live clients, by transport.",
		}, []string{"transport"}),
		registry: prometheus.NewRegistry(),
	}
	m.registry.MustRegister(
		m.Appended, m.Removed, m.Rejected, m.Subscribers,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) rejected(err error) {
	reason := "error"
	switch {
	case rules.IsViolation(err):
		reason = "rule"
	case errors.Is(err, store.ErrNotFound):
		reason = "not_found"
	case corrupt(err):
		reason = "corrupt"
	}
	m.Rejected.WithLabelValues(reason).Inc()
}
