package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/opsboard/backend/internal/infrastructure/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HTTPMetricsConfig holds configuration for HTTP metrics middleware.
type HTTPMetricsConfig struct {
	// Meter exports OTLP counters; nil keeps only the Prometheus histogram.
	Meter metric.Meter
	// SkipPaths are not measured (scrape and probe endpoints).
	SkipPaths []string
}

type httpInstruments struct {
	requestTotal   metric.Int64Counter
	activeRequests metric.Int64UpDownCounter
}

func newHTTPInstruments(meter metric.Meter) (*httpInstruments, error) {
	requestTotal, err := meter.Int64Counter(
		"http_server_request_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}
	activeRequests, err := meter.Int64UpDownCounter(
		"http_server_active_requests",
		metric.WithDescription("Number of currently active HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}
	return &httpInstruments{requestTotal: requestTotal, activeRequests: activeRequests}, nil
}

// HTTPMetrics records request latency on the Prometheus registry and, when a meter
// is configured, request counts and in-flight requests over OTLP.
// Routes are labelled by their pattern, so /projects/:id is one series.
func HTTPMetrics(cfg HTTPMetricsConfig) gin.HandlerFunc {
	var inst *httpInstruments
	if cfg.Meter != nil {
		// instrument errors only come from invalid names
		inst, _ = newHTTPInstruments(cfg.Meter)
	}
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		start := time.Now()
		ctx := c.Request.Context()
		if inst != nil {
			inst.activeRequests.Add(ctx, 1)
			defer inst.activeRequests.Add(ctx, -1)
		}

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		metrics.RecordHTTPRequestDuration(c.Request.Method, route, status, time.Since(start))

		if inst != nil {
			inst.requestTotal.Add(ctx, 1, metric.WithAttributes(
				attribute.String("method", c.Request.Method),
				attribute.String("route", route),
				attribute.String("status_code", status),
			))
		}
	}
}
