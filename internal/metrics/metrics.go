// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Auth attempt results.
const (
	AuthSuccess  = "success"
	AuthRejected = "rejected"
)

// Collector is the Prometheus-backed recorder used by services and clients.
type Collector struct {
	mlRequests      *prometheus.CounterVec
	mlLatency       *prometheus.HistogramVec
	authAttempts    *prometheus.CounterVec
	emailCodes      prometheus.Counter
	initTransitions *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		mlRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pubadmin_ml_requests_total",
			Help: "Calls to external ML services by outcome.",
		}, []string{"service", "path", "outcome"}),
		mlLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pubadmin_ml_request_duration_seconds",
			Help:    "Latency of external ML service calls.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"service", "path"}),
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pubadmin_auth_attempts_total",
			Help: "Email code submissions by result.",
		}, []string{"result"}),
		emailCodes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pubadmin_email_codes_issued_total",
			Help: "Email codes issued.",
		}),
		initTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pubadmin_avatar_init_transitions_total",
			Help: "Avatar initialization state transitions by target state.",
		}, []string{"status"}),
	}

	reg.MustRegister(
		c.mlRequests,
		c.mlLatency,
		c.authAttempts,
		c.emailCodes,
		c.initTransitions,
	)

	return c
}

// ObserveMLCall records one external ML call.
func (c *Collector) ObserveMLCall(service, path, outcome string, elapsed time.Duration) {
	c.mlRequests.WithLabelValues(service, path, outcome).Inc()
	c.mlLatency.WithLabelValues(service, path).Observe(elapsed.Seconds())
}

func (c *Collector) RecordAuthAttempt(result string) {
	c.authAttempts.WithLabelValues(result).Inc()
}

func (c *Collector) RecordEmailCodeIssued() {
	c.emailCodes.Inc()
}

// RecordInitTransition counts an avatar entering status.
func (c *Collector) RecordInitTransition(status string) {
	c.initTransitions.WithLabelValues(status).Inc()
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
