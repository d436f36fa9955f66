// Package tracing wires OpenTelemetry to a Jaeger collector.
package tracing

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// Shutdown flushes buffered spans and stops the exporter.
type Shutdown func(ctx context.Context) error

func noopShutdown(context.Context) error { return nil }

// Init installs a global tracer provider that exports to collector. An empty
// collector or "off" leaves the default no-op provider in place.
func Init(serviceName, env, collector string) (Shutdown, error) {
	if tracingDisabled(collector) {
		return noopShutdown, nil
	}

	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(
		jaeger.WithEndpoint(normalizeJaegerCollector(collector)),
	))
	if err != nil {
		return nil, fmt.Errorf("create jaeger exporter: %w", err)
	}

	tp := tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exp),
		tracesdk.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.DeploymentEnvironment(env),
		)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}

func tracingDisabled(collector string) bool {
	switch strings.ToLower(strings.TrimSpace(collector)) {
	case "", "off", "none", "disabled":
		return true
	default:
		return false
	}
}

func normalizeJaegerCollector(value string) string {
	endpoint := strings.TrimSpace(value)
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}
	if strings.HasSuffix(endpoint, "/api/traces") {
		return endpoint
	}
	if u, err := url.Parse(endpoint); err == nil && u.Port() == "" && strings.Trim(u.Path, "/") == "" {
		u.Host += ":14268"
		u.Path = ""
		endpoint = u.String()
	}

	return strings.TrimSuffix(endpoint, "/") + "/api/traces"
}
