package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Registry = prometheus.NewRegistry()

	OpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arcstore",
			Name:      "ops_total",
			Help:      "Total number of store operations.",
		},
		[]string{"op", "status"},
	)

	OpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "arcstore",
			Name:      "op_duration_seconds",
			Help:      "Latency of store operations.",
			// Covers in-memory lookups up to slow remote scans, 50us .. ~3s.
			Buckets: prometheus.ExponentialBuckets(0.00005, 2, 16),
		},
		[]string{"op"},
	)

	InFlight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "arcstore",
			Name:      "in_flight_ops",
			Help:      "Current number of in-flight store operations.",
		},
		[]string{"op"},
	)

	buildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "arcstore",
			Name:      "build_info",
			Help:      "Build info (constant 1, labeled by version and git_sha).",
		},
		[]string{"version", "git_sha"},
	)

	startTime = time.Now()
	uptime    = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: "arcstore",
			Name:      "uptime_seconds",
			Help:      "Process uptime in seconds.",
		},
		func() float64 { return time.Since(startTime).Seconds() },
	)
)

func init() {
	Registry.MustRegister(OpsTotal, OpDuration, InFlight, buildInfo, uptime)
}

// MetricsHandler exposes the registry. Mount it with
// mux.Handle("/metrics", telemetry.MetricsHandler()).
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// SetBuildInfo should be called once at startup, e.g. with ldflags-provided values.
func SetBuildInfo(version, gitSHA string) {
	buildInfo.WithLabelValues(version, gitSHA).Set(1)
}

// Observe runs fn and records it under the given "op" label: in-flight
// gauge, duration, and a counter split by ok/error status.
func Observe(op string, fn func() error) error {
	start := time.Now()

	InFlight.WithLabelValues(op).Inc()
	defer InFlight.WithLabelValues(op).Dec()

	err := fn()

	status := "ok"
	if err != nil {
		status = "error"
	}
	OpsTotal.WithLabelValues(op, status).Inc()
	OpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	return err
}
