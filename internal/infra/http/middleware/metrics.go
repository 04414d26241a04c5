package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "console"

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served by the console, by route pattern",
		},
		[]string{"method", "route", "status"},
	)

	// a maior parte do tempo é a chamada à API da clínica; PDFs passam de 1s
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of console HTTP requests in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.025, 2, 9),
		},
		[]string{"method", "route"},
	)

	inFlightRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "Requests currently being served",
		},
	)

	sessionEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_events_total",
			Help:      "Login, logout and failed login events of console sessions",
		},
		[]string{"event"},
	)

	receiptDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "receipt_deliveries_total",
			Help:      "Receipt e-mail deliveries requested through the console",
		},
		[]string{"status"},
	)

	integrationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "integration_errors_total",
			Help:      "Requests that failed because an upstream dependency failed",
		},
		[]string{"service"},
	)
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// Metrics rotula pelo padrão da rota do chi (/clients/{cpf}), nunca pelo path cru com CPF.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inFlightRequests.Inc()
		defer inFlightRequests.Dec()

		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		route := routePattern(r)
		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rw.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func RecordSessionEvent(event string) {
	sessionEvents.WithLabelValues(event).Inc()
}

func RecordReceiptDelivery(status string) {
	receiptDeliveries.WithLabelValues(status).Inc()
}

func RecordIntegrationError(service string) {
	integrationErrors.WithLabelValues(service).Inc()
}
