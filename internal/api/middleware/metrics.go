package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filebridge_http_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filebridge_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Metrics records request counts and latency per normalised route.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := NormalizePath(r.URL.Path)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// NormalizePath collapses ids and object names so labels stay bounded.
//
//	/api/files/0b6f...9d11   -> /api/files/{id}
//	/api/files/images/a/b.png -> /api/files/images/{name}
func NormalizePath(path string) string {
	const prefix = "/api/files/"
	rest, ok := strings.CutPrefix(path, prefix)
	if !ok {
		return path
	}
	switch {
	case rest == "" || rest == "upload" || rest == "images":
		return path
	case strings.HasPrefix(rest, "images/"):
		return prefix + "images/{name}"
	}
	if _, err := uuid.Parse(rest); err == nil {
		return prefix + "{id}"
	}
	return prefix + "{other}"
}
