package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// unmatchedRoute labels requests that hit no route, so probing for paths
// cannot grow the series count.
const unmatchedRoute = "unmatched"

var (
	httpReqTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "songly",
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by route pattern",
		},
		[]string{"route", "method", "status"},
	)
	httpLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "songly",
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests by route pattern",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"route", "method"},
	)
)

func init() { prometheus.MustRegister(httpReqTotal, httpLatency) }

// Metrics records count and latency per route pattern (/songs/:id, not /songs/7).
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		method := c.Request.Method
		httpReqTotal.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		httpLatency.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}
