// Package telemetry installs the global OpenTelemetry tracer provider.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Shutdown flushes and stops the provider.
type Shutdown func(context.Context) error

// Setup exports spans over OTLP/HTTP to endpoint. An empty endpoint leaves
// the no-op global provider in place.
// POST: the returned Shutdown is always non-nil
func Setup(ctx context.Context, endpoint, service, version string) (Shutdown, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}
	tp := NewProvider(exp, service, version)
	otel.SetTracerProvider(tp)
	slog.Info("tracing_enabled", "endpoint", endpoint, "service", service)
	return tp.Shutdown, nil
}

// NewProvider batches spans to exp under a service resource.
func NewProvider(exp sdktrace.SpanExporter, service, version string) *sdktrace.TracerProvider {
	res := resource.NewSchemaless(
		attribute.String("service.name", service),
		attribute.String("service.version", version),
	)
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
}
