// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "studentlife"
	subsystem = "cap_orders"
)

// Metrics groups the HTTP and business collectors
type Metrics struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	emailsSent       *prometheus.CounterVec
	ordersSubmitted  *prometheus.CounterVec
	checkoutSessions *prometheus.CounterVec
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		emailsSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "emails_sent_total",
				Help:      "Total number of emails handed to the mail transport",
			},
			[]string{"kind", "result"}, // kind: customer/admin/workflow, result: success/failure
		),
		ordersSubmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orders_submitted_total",
				Help:      "Total number of configurator orders accepted",
			},
			[]string{"persisted"},
		),
		checkoutSessions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_sessions_total",
				Help:      "Total number of checkout session calls",
			},
			[]string{"operation", "result"},
		),
	}
}

// Middleware records request count and latency per route
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// EmailSent counts one send attempt. Safe on a nil receiver.
func (m *Metrics) EmailSent(kind string, err error) {
	if m == nil {
		return
	}
	m.emailsSent.WithLabelValues(kind, result(err)).Inc()
}

// OrderSubmitted counts an accepted order. Safe on a nil receiver.
func (m *Metrics) OrderSubmitted(persisted bool) {
	if m == nil {
		return
	}
	m.ordersSubmitted.WithLabelValues(strconv.FormatBool(persisted)).Inc()
}

// CheckoutCall counts a payment processor call. Safe on a nil receiver.
func (m *Metrics) CheckoutCall(operation string, err error) {
	if m == nil {
		return
	}
	m.checkoutSessions.WithLabelValues(operation, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
