package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the service's collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	Requests      *prometheus.CounterVec
	LatencyMS     *prometheus.HistogramVec
	Notifications *prometheus.CounterVec
	Transitions   *prometheus.CounterVec
	SweepDuration prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pizzeria",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pizzeria",
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"handler"})
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pizzeria",
		Name:      "notifications_total",
		Help:      "Notification send attempts by channel and result.",
	}, []string{"channel", "result"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pizzeria",
		Name:      "order_status_transitions_total",
		Help:      "Applied order status transitions.",
	}, []string{"from", "to", "source"})
	sweep := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pizzeria",
		Name:      "automatic_sweep_duration_ms",
		Help:      "Duration of automatic transition sweeps in milliseconds.",
		Buckets:   []float64{10, 50, 100, 250, 500, 1000, 5000, 15000},
	})

	reg.MustRegister(requests, latency, notifications, transitions, sweep)
	return &Metrics{
		Requests:      requests,
		LatencyMS:     latency,
		Notifications: notifications,
		Transitions:   transitions,
		SweepDuration: sweep,
	}
}

func (m *Metrics) ObserveNotification(channel string, success bool) {
	if m == nil {
		return
	}
	result := "success"
	if !success {
		result = "failure"
	}
	m.Notifications.WithLabelValues(channel, result).Inc()
}

func (m *Metrics) ObserveTransition(from, to string, automatic bool) {
	if m == nil {
		return
	}
	source := "manual"
	if automatic {
		source = "automatic"
	}
	m.Transitions.WithLabelValues(from, to, source).Inc()
}

func (m *Metrics) ObserveSweep(d time.Duration) {
	if m == nil {
		return
	}
	m.SweepDuration.Observe(float64(d.Milliseconds()))
}

// Middleware records request counts and latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Requests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.LatencyMS.WithLabelValues(route).Observe(float64(time.Since(start).Milliseconds()))
	}
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
