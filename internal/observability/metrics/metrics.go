// Package metrics provides Prometheus instrumentation for the claim portal.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	enabled bool

	// HTTP metrics
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec

	// Claims domain metrics
	claimSignTotal            *prometheus.CounterVec
	purchaseVerificationTotal *prometheus.CounterVec
	signatureCandidates       prometheus.Histogram
)

// Init initializes the metrics system.
func Init(enabledFlag bool) {
	enabled = enabledFlag
	if !enabled {
		return
	}

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	claimSignTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claim_sign_total",
			Help: "Total number of claim signing requests",
		},
		[]string{"status"},
	)

	purchaseVerificationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purchase_verification_total",
			Help: "Total number of on-chain purchase verifications",
		},
		[]string{"result"},
	)

	signatureCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "signature_candidates_produced",
			Help:    "Number of signature candidates produced per request",
			Buckets: []float64{1, 2, 3, 4, 6, 8},
		},
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	if !enabled {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
	}
	return promhttp.Handler()
}

// Enabled returns whether metrics are enabled.
func Enabled() bool {
	return enabled
}
