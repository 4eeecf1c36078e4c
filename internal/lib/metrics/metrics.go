// Package metrics содержит Prometheus-метрики сервиса: HTTP-запросы
// и бизнес-события (записанные платежи, погашенные долги).
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "peso"

// Metrics объединяет все коллекторы сервиса.
type Metrics struct {
	registry         *prometheus.Registry
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	PaymentsRecorded prometheus.Counter
	InvoicesSettled  prometheus.Counter
}

// New создаёт метрики в отдельном реестре вместе со стандартными
// коллекторами процесса и рантайма Go.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Number of HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		PaymentsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_recorded_total",
			Help:      "Number of payments recorded against debts.",
		}),
		InvoicesSettled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoices_settled_total",
			Help:      "Number of debts switched to PAID by a payment.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.PaymentsRecorded,
		m.InvoicesSettled,
	)
	return m
}

// Handler отдаёт метрики в формате Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// PaymentRecorded учитывает записанный платёж и, если долг погашен, - погашение.
func (m *Metrics) PaymentRecorded(settled bool) {
	m.PaymentsRecorded.Inc()
	if settled {
		m.InvoicesSettled.Inc()
	}
}
