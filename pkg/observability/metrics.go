package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Payment flow metrics
	paymentFormsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vinti4_payment_forms_total",
			Help: "Total number of signed payment forms generated",
		},
		[]string{"currency"},
	)

	callbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vinti4_callbacks_total",
			Help: "Total number of gateway callbacks processed, by validation reason",
		},
		[]string{"reason"},
	)

	// Fingerprint mismatches get their own counter so integrity alerts do not
	// have to dig through the per-reason breakdown
	fingerprintFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vinti4_fingerprint_failures_total",
			Help: "Total number of callbacks that failed fingerprint verification",
		},
	)

	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)
)

// RecordPaymentForm records a generated payment form
func RecordPaymentForm(currency string) {
	paymentFormsTotal.WithLabelValues(currency).Inc()
}

// RecordCallback records a processed callback by validation reason
func RecordCallback(reason string) {
	callbacksTotal.WithLabelValues(reason).Inc()
}

// RecordFingerprintFailure records a failed fingerprint verification
func RecordFingerprintFailure() {
	fingerprintFailuresTotal.Inc()
}

// statusRecorder captures the response status code for metrics
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// HTTPMiddleware returns middleware that records Prometheus metrics for each request
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		httpRequestDuration.WithLabelValues(r.URL.Path).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(r.URL.Path, r.Method, http.StatusText(recorder.status)).Inc()
	})
}
