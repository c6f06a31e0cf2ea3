package metrics

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "catalog_sync"

// Metrics groups the collectors of one process.
type Metrics struct {
	registry    *prometheus.Registry
	jobs        *prometheus.CounterVec
	jobDuration *prometheus.HistogramVec
	records     *prometheus.CounterVec
	requests    *prometheus.CounterVec
}

// New creates the collectors and registers them, together with the Go runtime
// collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		jobs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "jobs_total",
				Help:      "Total number of finished jobs.",
			},
			[]string{"kind", "state"},
		),
		jobDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "job_duration_seconds",
				Help:      "Histogram of job execution durations.",
				Buckets:   []float64{0.5, 1, 5, 15, 30, 60, 300, 900},
			},
			[]string{"kind"},
		),
		records: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "records_total",
				Help:      "Total number of reconciled feed records.",
			},
			[]string{"outcome"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
	}

	m.registry.MustRegister(
		m.jobs,
		m.jobDuration,
		m.records,
		m.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordJob counts a finished job and observes its duration.
func (m *Metrics) RecordJob(kind, state string, duration time.Duration) {
	m.jobs.WithLabelValues(kind, state).Inc()
	m.jobDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordOutcome counts one reconciled record.
func (m *Metrics) RecordOutcome(outcome string) {
	m.records.WithLabelValues(outcome).Inc()
}

// RecordRequest counts one served HTTP request.
func (m *Metrics) RecordRequest(method, route string, statusCode int) {
	m.requests.WithLabelValues(method, route, classifyStatus(statusCode)).Inc()
}

// Handler returns a Fiber handler serving the registry.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// Middleware counts every request passing through it.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		m.RecordRequest(c.Method(), c.Route().Path, status)
		return err
	}
}

func classifyStatus(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500 && statusCode < 600:
		return "5xx"
	}
	return "unknown"
}
