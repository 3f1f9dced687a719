// Package metrics exposes Prometheus collectors for the scrape endpoint.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Refresh results
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	RefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ops_notification_refresh_total",
			Help: "Project notification refreshes by result",
		},
		[]string{"result"},
	)

	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ops_notification_refresh_duration_seconds",
			Help:    "Time to derive and store one project's notifications",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
	)

	DerivedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ops_notifications_derived_total",
			Help: "Notifications produced by refreshes, by kind",
		},
		[]string{"kind"},
	)

	ActiveNotifications = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ops_notifications_active",
			Help: "Cached notifications across the portfolio, by kind",
		},
		[]string{"kind"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "path", "status"},
	)
)

// RecordRefresh records one project refresh
func RecordRefresh(result string, duration time.Duration) {
	RefreshTotal.WithLabelValues(result).Inc()
	RefreshDuration.Observe(duration.Seconds())
}

// RecordDerived counts derived notifications per kind
func RecordDerived(countByKind map[string]int) {
	for kind, n := range countByKind {
		DerivedTotal.WithLabelValues(kind).Add(float64(n))
	}
}

// SetActive replaces the per-kind portfolio gauge
func SetActive(countByKind map[string]int) {
	ActiveNotifications.Reset()
	for kind, n := range countByKind {
		ActiveNotifications.WithLabelValues(kind).Set(float64(n))
	}
}

// RecordHTTPRequestDuration records a served request
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
