// Package metrics defines the Prometheus collectors exported on /metrics.
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
	// HTTPRequests counts handled requests by route template, method and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warbler_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"route", "method", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "warbler_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	// DomainEvents counts successful domain mutations (message_created, user_followed, ...).
	DomainEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warbler_domain_events_total",
		Help: "Total number of domain events by type",
	}, []string{"event"})

	// AuthFailures counts rejected requests by reason (unauthorized, bad_credentials).
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warbler_auth_failures_total",
		Help: "Total number of rejected authentication or authorization checks",
	}, []string{"reason"})

	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "warbler_websocket_connections",
		Help: "Number of active live-feed WebSocket connections",
	})

	// WebSocketDrops counts events dropped because a client's send queue was full.
	WebSocketDrops = promauto.NewCounter(prometheus.CounterOpts{
		Name: "warbler_websocket_dropped_events_total",
		Help: "Total number of live-feed events dropped due to backpressure",
	})
)

const (
	EventMessageCreated = "message_created"
	EventMessageDeleted = "message_deleted"
	EventUserSignedUp   = "user_signed_up"
	EventUserDeleted    = "user_deleted"
	EventUserFollowed   = "user_followed"
	EventUserUnfollowed = "user_unfollowed"
	EventMessageLiked   = "message_liked"
	EventMessageUnliked = "message_unliked"
)

func RecordEvent(event string) {
	DomainEvents.WithLabelValues(event).Inc()
}

// Middleware records request count and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		HTTPRequests.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
