package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the API's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	DocumentsCreated   *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	StoreErrors        *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		DocumentsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "travelapi_documents_created_total",
			Help: "Documents written, by collection",
		}, []string{"collection"}),
		ValidationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "travelapi_validation_failures_total",
			Help: "Rejected payloads, by collection and failure kind",
		}, []string{"collection", "kind"}),
		StoreErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "travelapi_store_errors_total",
			Help: "Store failures surfaced to callers, by operation",
		}, []string{"operation"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "travelapi_request_duration_seconds",
			Help:    "HTTP request duration by route pattern and status",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "route", "status"}),
	}
}

func (m *Metrics) IncrementCreated(collection string) {
	m.DocumentsCreated.WithLabelValues(collection).Inc()
}

func (m *Metrics) IncrementValidationFailure(collection, kind string) {
	m.ValidationFailures.WithLabelValues(collection, kind).Inc()
}

func (m *Metrics) IncrementStoreError(operation string) {
	m.StoreErrors.WithLabelValues(operation).Inc()
}

// ObserveRequest records a request's duration. Call with time.Now() taken at the start.
func (m *Metrics) ObserveRequest(method, route, status string, start time.Time) {
	m.RequestDuration.WithLabelValues(method, route, status).Observe(time.Since(start).Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
