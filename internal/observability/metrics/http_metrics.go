package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records request counts and latency per route template.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewHTTPMetrics(cfg Config) *HTTPMetrics {
	return newHTTPMetrics(prometheus.DefaultRegisterer, cfg)
}

func newHTTPMetrics(registerer prometheus.Registerer, cfg Config) *HTTPMetrics {
	labels := constLabels(cfg)
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "retailerp_http_requests_total",
		Help:        "HTTP requests by route and status code.",
		ConstLabels: labels,
	}, []string{"method", "endpoint", "status_code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "retailerp_http_request_duration_seconds",
		Help:        "HTTP request latency by route.",
		Buckets:     prometheus.DefBuckets,
		ConstLabels: labels,
	}, []string{"method", "endpoint"})

	registerer.MustRegister(requests, duration)
	return &HTTPMetrics{requests: requests, duration: duration}
}

// Middleware labels by the matched route so path parameters never become
// label values.
func (m *HTTPMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		endpoint := strings.TrimSpace(c.FullPath())
		if endpoint == "" {
			endpoint = "unmatched"
		}
		method := c.Request.Method
		m.requests.WithLabelValues(method, endpoint, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
	}
}
