package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns its registry so several instances can coexist in tests.
type Collector struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	rejectionsTotal     *prometheus.CounterVec
	appointmentWrites   *prometheus.CounterVec
	authAttemptsTotal   *prometheus.CounterVec
	counterFallbacks    prometheus.Counter
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		rejectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scheduling_rejections_total",
				Help: "Appointment schedules rejected by the validator, by reason",
			},
			[]string{"reason"},
		),
		appointmentWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "appointment_writes_total",
				Help: "Accepted appointment writes, by operation",
			},
			[]string{"operation"},
		),
		authAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_attempts_total",
				Help: "Total number of login attempts",
			},
			[]string{"status"},
		),
		counterFallbacks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "appointment_counter_fallbacks_total",
				Help: "Workload reads served from PostgreSQL because Redis failed",
			},
		),
	}

	c.registry.MustRegister(
		c.httpRequestsTotal,
		c.httpRequestDuration,
		c.rejectionsTotal,
		c.appointmentWrites,
		c.authAttemptsTotal,
		c.counterFallbacks,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

func (c *Collector) RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration) {
	c.httpRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	c.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

func (c *Collector) RecordRejection(reason string) {
	c.rejectionsTotal.WithLabelValues(reason).Inc()
}

func (c *Collector) RecordAppointmentWrite(operation string) {
	c.appointmentWrites.WithLabelValues(operation).Inc()
}

func (c *Collector) RecordAuthAttempt(status string) {
	c.authAttemptsTotal.WithLabelValues(status).Inc()
}

func (c *Collector) RecordCounterFallback() {
	c.counterFallbacks.Inc()
}

// Registry exposes the underlying registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// HTTPMiddleware labels requests with the route template rather than the raw
// path so IDs do not explode the label cardinality.
func (c *Collector) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		endpoint := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				endpoint = tpl
			}
		}

		c.RecordHTTPRequest(r.Method, endpoint, strconv.Itoa(wrapper.statusCode), time.Since(start))
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
