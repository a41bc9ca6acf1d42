package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tanda_http_requests_total",
			Help: "Total HTTP requests by method, path and status.",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tanda_http_request_duration_seconds",
			Help:    "HTTP request latency by method and path.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Metrics records Prometheus request counts and latencies.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		path := metricPath(r.URL.Path)

		timer := prometheus.NewTimer(requestDuration.WithLabelValues(r.Method, path))
		next.ServeHTTP(rec, r)
		timer.ObserveDuration()

		requestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
	})
}

// metricPath collapses id-carrying path segments so label cardinality
// stays bounded: /api/groups/<uuid>/join becomes /api/groups/:id/join.
func metricPath(p string) string {
	parts := strings.Split(p, "/")
	for i := 1; i < len(parts); i++ {
		switch parts[i-1] {
		case "groups", "accounts":
			if parts[i] != "" && parts[i] != "all" {
				parts[i] = ":id"
			}
		case "turns", "cycles":
			if _, err := strconv.Atoi(parts[i]); err == nil {
				parts[i] = ":n"
			}
		}
	}
	return strings.Join(parts, "/")
}
