package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	AppointmentsBooked prometheus.Counter
	SlotRejections     *prometheus.CounterVec
	AuditFailures      prometheus.Counter
	requestDuration    *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		AppointmentsBooked: f.NewCounter(prometheus.CounterOpts{
			Name: "clinic_appointments_booked_total",
			Help: "Appointments created with status pending.",
		}),
		SlotRejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "clinic_slot_rejections_total",
			Help: "Bookings or edits rejected because the slot was taken.",
		}, []string{"reason"}),
		AuditFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "clinic_audit_write_failures_total",
			Help: "Activity log rows that could not be written.",
		}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clinic_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// Handler serves the private registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		m.requestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Booked and SlotRejected are safe on a nil receiver so use cases can run
// without metrics in tests.
func (m *Metrics) Booked() {
	if m != nil {
		m.AppointmentsBooked.Inc()
	}
}

func (m *Metrics) SlotRejected(reason string) {
	if m != nil {
		m.SlotRejections.WithLabelValues(reason).Inc()
	}
}
