// Package metrics exposes Prometheus instrumentation for the API.
//
// Mount it in the kernel:
//
//	r.Use(metrics.Middleware())
//	r.Get("/metrics", "metrics", metrics.Handler())
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every collector the app exports. Register custom
// collectors against this rather than the prometheus default, so tests
// can build the kernel repeatedly without duplicate-registration panics
// from the global state.
var Registry = prometheus.NewRegistry()

var (
	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "villageangel",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method, route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "villageangel",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served.",
	}, []string{"method", "route", "status"})

	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "villageangel",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Requests currently being handled.",
	})

	jobRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "villageangel",
		Subsystem: "queue",
		Name:      "jobs_total",
		Help:      "Queue jobs processed, by job name and outcome.",
	}, []string{"job", "outcome"})

	jobDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "villageangel",
		Subsystem: "queue",
		Name:      "job_duration_seconds",
		Help:      "Queue job run time.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"job"})

	cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "villageangel",
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Cache lookups, by driver and result.",
	}, []string{"driver", "result"})

	// OrdersPlaced counts successful order placements by payment type.
	OrdersPlaced = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "villageangel",
		Subsystem: "store",
		Name:      "orders_placed_total",
		Help:      "Orders placed, by payment type.",
	}, []string{"payment_type"})

	// OTPIssued counts one-time passwords sent out, by purpose
	// (activation, forgot-password).
	OTPIssued = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "villageangel",
		Subsystem: "auth",
		Name:      "otp_issued_total",
		Help:      "One-time passwords issued, by purpose.",
	}, []string{"purpose"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpDuration,
		httpRequests,
		httpInFlight,
		jobRuns,
		jobDuration,
		cacheLookups,
		OrdersPlaced,
		OTPIssued,
	)
}

// MustRegister adds app-specific collectors to the registry.
func MustRegister(cs ...prometheus.Collector) {
	Registry.MustRegister(cs...)
}

// Middleware records duration, count and in-flight gauge for every
// request. The route label uses the chi pattern ("/products/{id}")
// rather than the raw path, keeping label cardinality bounded.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			httpInFlight.Inc()
			defer httpInFlight.Dec()

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil {
				if p := rc.RoutePattern(); p != "" {
					route = p
				}
			}

			status := strconv.Itoa(sw.status)
			httpDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
			httpRequests.WithLabelValues(r.Method, route, status).Inc()
		})
	}
}

// Handler serves the scrape endpoint for the app registry.
func Handler() http.HandlerFunc {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}).ServeHTTP
}

// RecordJob is called by the queue worker after each job run.
func RecordJob(job string, err error, start time.Time) {
	outcome := "success"
	if err != nil {
		outcome = "failed"
	}
	jobRuns.WithLabelValues(job, outcome).Inc()
	jobDuration.WithLabelValues(job).Observe(time.Since(start).Seconds())
}

// RecordCacheLookup is called by the cache drivers on every Get.
func RecordCacheLookup(driver string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(driver, result).Inc()
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
