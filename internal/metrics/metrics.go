package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts handled requests by method, route template and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bodytrack",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration tracks request latency by route template.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bodytrack",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// SubscriptionPurchases counts purchase attempts by tier and outcome.
	SubscriptionPurchases = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bodytrack",
		Subsystem: "subscriptions",
		Name:      "purchases_total",
		Help:      "Subscription purchase attempts by plan and outcome.",
	}, []string{"plan", "outcome"})

	SubscriptionCancellations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bodytrack",
		Subsystem: "subscriptions",
		Name:      "cancellations_total",
		Help:      "Subscriptions cancelled by their clients.",
	})

	SubscriptionsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bodytrack",
		Subsystem: "subscriptions",
		Name:      "expired_total",
		Help:      "Subscriptions moved to EXPIRADA by the sweep.",
	})

	SweepFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bodytrack",
		Subsystem: "subscriptions",
		Name:      "sweep_failures_total",
		Help:      "Expired subscriptions the sweep could not process.",
	})
)

// Purchase outcomes.
const (
	OutcomeSuccess   = "success"
	OutcomeRejected  = "payment_rejected"
	OutcomeDuplicate = "duplicate"
	OutcomeError     = "error"
)

// Middleware records request count and latency. Unmatched routes are grouped under "unmatched".
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
