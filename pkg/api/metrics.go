package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for the API.
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	storeOperationsTotal   *prometheus.CounterVec
	storeOperationDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "runekv_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "runekv_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		storeOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "runekv_store_operations_total",
				Help: "Total number of store operations",
			},
			[]string{"family", "operation", "status"},
		),
		storeOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "runekv_store_operation_duration_seconds",
				Help:    "Store operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"family", "operation"},
		),
	}
}

// InstrumentHandler wraps a handler with request counting and latency
// observation for one route.
func (m *Metrics) InstrumentHandler(method, endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(rec, r)

		m.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(rec.status)).Inc()
		m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// ObserveStoreOp records one store operation's outcome and latency.
func (m *Metrics) ObserveStoreOp(family, operation string, start time.Time, err error) {
	status := statusSuccess
	if err != nil {
		status = statusError
	}
	m.storeOperationsTotal.WithLabelValues(family, operation, status).Inc()
	m.storeOperationDuration.WithLabelValues(family, operation).Observe(time.Since(start).Seconds())
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
