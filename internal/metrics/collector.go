// Package metrics exposes prometheus instruments for the transform service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Transform outcomes besides the error kinds
const (
	OutcomeOK       = "ok"
	OutcomeNoImages = "no_images"
)

// Collector owns a private registry so several containers can coexist in one process.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	transformsTotal    *prometheus.CounterVec
	transformDuration  prometheus.Histogram
	imagesTotal        prometheus.Counter
	fallbackScansTotal prometheus.Counter
}

// NewCollector creates a collector registering under namespace
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		transformsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transform_requests_total",
				Help:      "Total number of transform calls by outcome",
			},
			[]string{"outcome"},
		),
		transformDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "transform_duration_seconds",
				Help:      "Transform call duration in seconds",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
			},
		),
		imagesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transform_images_total",
				Help:      "Total number of generated images returned",
			},
		),
		fallbackScansTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transform_extraction_fallback_total",
				Help:      "Number of responses that needed the full document scan",
			},
		),
	}
}

// Registry returns the collector's registry
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler serves the registry in the prometheus exposition format
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// RecordHTTPRequest records one served HTTP request
func (c *Collector) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordTransform records a finished transform call
func (c *Collector) RecordTransform(outcome string, duration time.Duration, images int) {
	if c == nil {
		return
	}
	c.transformsTotal.WithLabelValues(outcome).Inc()
	c.transformDuration.Observe(duration.Seconds())
	if images > 0 {
		c.imagesTotal.Add(float64(images))
	}
}

// RecordFallbackScan counts a response that fell through to the document scan
func (c *Collector) RecordFallbackScan() {
	if c == nil {
		return
	}
	c.fallbackScansTotal.Inc()
}
