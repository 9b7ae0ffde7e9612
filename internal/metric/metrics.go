package metric

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "requests_total",
			Help: "Total number of HTTP requests processed, labeled by method, path and status",
		},
		[]string{"method", "path", "status"},
	)

	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "request_latency_seconds",
			Help:    "Histogram of request latencies labeled by method and path",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	TasksCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tasks_count",
			Help: "Current number of tasks in the list",
		},
	)

	StoreWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_writes_total",
			Help: "Full rewrites of the task store, labeled by backend and result",
		},
		[]string{"backend", "result"},
	)

	LoadSkippedLines = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "load_skipped_lines_total",
			Help: "Persisted lines skipped during load because they could not be parsed",
		},
	)
)

// InitMetrics registers the Prometheus metrics. Call once at program startup.
func InitMetrics() {
	prometheus.MustRegister(RequestsTotal, RequestLatency, TasksCount, StoreWritesTotal, LoadSkippedLines)
}

// PrometheusMiddleware returns a Gin middleware that instruments requests.
// It records request count and latency (method + path + status labels).
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start).Seconds()

		status := strconv.Itoa(c.Writer.Status())
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		RequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		RequestLatency.WithLabelValues(c.Request.Method, route).Observe(duration)
	}
}

// PromhttpHandler returns the standard promhttp handler to expose /metrics.
func PromhttpHandler() http.Handler {
	return promhttp.Handler()
}

// SetTasksCount sets the tasks_count gauge to the provided value.
func SetTasksCount(n int) {
	TasksCount.Set(float64(n))
}
