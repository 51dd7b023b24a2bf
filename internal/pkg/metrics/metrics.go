// Package metrics exposes the service's Prometheus instruments.
//
// A nil *Metrics is valid and records nothing, so collaborators can take
// the dependency optionally.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rawsy"

// Outcome label values.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeDropped = "dropped"
	OutcomePanic   = "panic"
)

// Metrics holds the registry and all collectors.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	quoteTransitions    *prometheus.CounterVec
	notifications       *prometheus.CounterVec
	pushMessages        *prometheus.CounterVec
	sideEffects         *prometheus.CounterVec
	outboxEvents        *prometheus.CounterVec
}

// New creates a Metrics instance on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Histogram of HTTP request durations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		quoteTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_transitions_total",
			Help:      "Committed quote state transitions.",
		}, []string{"from", "to", "action"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_persisted_total",
			Help:      "Notification records written, by type and outcome.",
		}, []string{"type", "outcome"}),
		pushMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "push_messages_total",
			Help:      "Device push deliveries attempted, by outcome.",
		}, []string{"outcome"}),
		sideEffects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "side_effects_total",
			Help:      "Background side effects run, by name and outcome.",
		}, []string{"name", "outcome"}),
		outboxEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_relayed_total",
			Help:      "Outbox events handled by the relay, by type and resulting status.",
		}, []string{"event_type", "status"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpRequestDuration,
		m.quoteTransitions,
		m.notifications,
		m.pushMessages,
		m.sideEffects,
		m.outboxEvents,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) RecordRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) QuoteTransition(from, to, action string) {
	if m == nil {
		return
	}
	m.quoteTransitions.WithLabelValues(from, to, action).Inc()
}

func (m *Metrics) NotificationPersisted(notificationType string, err error) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(notificationType, outcome(err)).Inc()
}

// PushSent counts deliveries per token.
func (m *Metrics) PushSent(tokens int, err error) {
	if m == nil {
		return
	}
	m.pushMessages.WithLabelValues(outcome(err)).Add(float64(tokens))
}

func (m *Metrics) SideEffect(name, result string) {
	if m == nil {
		return
	}
	m.sideEffects.WithLabelValues(name, result).Inc()
}

func (m *Metrics) OutboxRelayed(eventType, status string) {
	if m == nil {
		return
	}
	m.outboxEvents.WithLabelValues(eventType, status).Inc()
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}
