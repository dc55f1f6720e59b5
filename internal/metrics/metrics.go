// Package metrics exposes the service's Prometheus instrumentation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// GroupsCreated counts groups created since process start.
	GroupsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "amigosecreto_groups_created_total",
		Help: "Number of secret friend groups created.",
	})

	// Confirmations counts successful participation confirmations.
	Confirmations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "amigosecreto_confirmations_total",
		Help: "Number of participants who confirmed participation.",
	})

	// Draws counts successful draws.
	Draws = promauto.NewCounter(prometheus.CounterOpts{
		Name: "amigosecreto_draws_total",
		Help: "Number of draws performed.",
	})

	// Reveals counts successful secret friend lookups.
	Reveals = promauto.NewCounter(prometheus.CounterOpts{
		Name: "amigosecreto_reveals_total",
		Help: "Number of successful secret friend reveals.",
	})

	// DrawAttempts observes how many shuffles the rejection sampler needed
	// per draw. The distribution should hug its theoretical mean of ~e.
	DrawAttempts = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "amigosecreto_draw_attempts",
		Help:    "Shuffle attempts needed to find a derangement.",
		Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
	})

	// HTTPRequests counts requests by route, method, and status code.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "amigosecreto_http_requests_total",
		Help: "HTTP requests processed.",
	}, []string{"method", "route", "code"})

	// HTTPDuration observes request latency by route and method.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "amigosecreto_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// Handler returns the /metrics scrape handler for the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
