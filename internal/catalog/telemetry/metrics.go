// Package telemetry wires OpenTelemetry metrics with a Prometheus exporter.
package telemetry

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
)

// Metrics holds the instruments recorded by the HTTP middleware.
type Metrics struct {
	Requests        metric.Int64Counter
	ErrorCount      metric.Int64Counter
	RequestDuration metric.Float64Histogram

	provider *sdkmetric.MeterProvider
}

// InitMetrics sets up the meter provider, Prometheus exporter, and Go
// runtime instrumentation. The returned shutdown function flushes the
// provider and must be called on exit.
func InitMetrics(version string) (func(context.Context) error, *Metrics, error) {
	exporter, err := otelprom.New()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName("oneai-catalog"),
		semconv.ServiceVersion(version),
	))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)

	if err := runtime.Start(runtime.WithMeterProvider(provider)); err != nil {
		return nil, nil, fmt.Errorf("failed to start runtime instrumentation: %w", err)
	}

	meter := provider.Meter("oneai-catalog")

	requests, err := meter.Int64Counter("http_requests_total",
		metric.WithDescription("Total number of HTTP requests"))
	if err != nil {
		return nil, nil, err
	}
	errorCount, err := meter.Int64Counter("http_request_errors_total",
		metric.WithDescription("Total number of HTTP requests that returned an error status"))
	if err != nil {
		return nil, nil, err
	}
	requestDuration, err := meter.Float64Histogram("http_request_duration_seconds",
		metric.WithDescription("HTTP request latency in seconds"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, nil, err
	}

	m := &Metrics{
		Requests:        requests,
		ErrorCount:      errorCount,
		RequestDuration: requestDuration,
		provider:        provider,
	}
	return provider.Shutdown, m, nil
}

// PrometheusHandler exposes the scrape endpoint.
func (m *Metrics) PrometheusHandler() http.Handler {
	return promhttp.Handler()
}
