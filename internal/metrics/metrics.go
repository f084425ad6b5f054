// Package metrics provides Prometheus instrumentation for the score engine.
package metrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// PredictionsTotal counts predictions served, partitioned by predictor.
	PredictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "score_engine_predictions_total",
		Help: "Total number of score predictions served",
	}, []string{"predictor"})

	// ProjectionLatency tracks time spent in derive + predict.
	ProjectionLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "score_engine_projection_latency_seconds",
		Help:    "Projection latency in seconds",
		Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005},
	}, []string{"predictor"})

	// ProjectedRuns tracks the distribution of projected additional runs
	// (prediction minus current score).
	ProjectedRuns = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "score_engine_projected_additional_runs",
		Help:    "Projected runs still to come per prediction",
		Buckets: []float64{0, 10, 20, 40, 60, 80, 100, 150, 200},
	})

	// ValidationRejections counts requests rejected by input validation,
	// partitioned by field.
	ValidationRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "score_engine_validation_rejections_total",
		Help: "Prediction requests rejected by input validation",
	}, []string{"field"})

	// StoreErrors counts failed prediction history writes.
	StoreErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "score_engine_store_errors_total",
		Help: "Prediction records that failed to persist",
	})

	// WebSocketClients tracks connected WebSocket clients.
	WebSocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "score_engine_websocket_clients",
		Help: "Number of connected WebSocket clients",
	})

	// HTTPRequestsTotal counts HTTP requests by method, route, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "score_engine_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "score_engine_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware returns an HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start).Seconds()

		path := routePattern(r)
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// routePattern uses the matched chi route so IDs don't explode cardinality.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack lets WebSocket upgrades pass through the middleware.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("metrics: underlying ResponseWriter does not support hijacking")
	}
	return h.Hijack()
}
