package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shareit_bookings_created_total",
		Help: "Total number of bookings successfully created.",
	})

	BookingDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shareit_booking_decisions_total",
		Help: "Total number of owner decisions applied to bookings, by resulting status.",
	},
		[]string{"status"},
	)

	BookingQueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shareit_booking_queries_total",
		Help: "Total number of booking list queries, by viewer role and state.",
	},
		[]string{"role", "state"},
	)

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shareit_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)

	EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shareit_events_published_total",
		Help: "Total number of events handed to the broker, by type and outcome.",
	},
		[]string{"type", "outcome"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shareit_http_request_duration_seconds",
		Help:    "Latency of HTTP requests by route, method and status.",
		Buckets: prometheus.DefBuckets,
	},
		[]string{"route", "method", "status"},
	)
)

// HTTPMiddleware records request latency per matched route.
func HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestDuration.
			WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
