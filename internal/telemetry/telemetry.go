package telemetry

import (
	"context"
	"log"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Setup installs the global TracerProvider. The exporter is chosen by
// OTEL_TRACES_EXPORTER ("otlp", "stdout", or "none"); with "otlp" the
// endpoint comes from OTEL_EXPORTER_OTLP_ENDPOINT, and an unset endpoint
// disables export entirely so the service runs fine without a collector.
func Setup(serviceName string) func(context.Context) error {
	exporter, ok := newExporter()
	if !ok {
		return func(context.Context) error { return nil }
	}

	res, err := resource.New(context.Background(), resource.WithAttributes(
		semconv.ServiceName(serviceName),
		semconv.DeploymentEnvironment(getEnvOr("DEPLOY_ENV", "development")),
	))
	if err != nil {
		log.Printf("otel resource error: %v", err)
	}

	provider := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(provider)

	return provider.Shutdown
}

func newExporter() (trace.SpanExporter, bool) {
	switch getEnvOr("OTEL_TRACES_EXPORTER", "otlp") {
	case "stdout":
		exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			log.Printf("otel stdout exporter error: %v", err)
			return nil, false
		}
		return exporter, true
	case "none":
		return nil, false
	default:
		endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
		if endpoint == "" {
			return nil, false
		}
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(endpoint)}
		if os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true" {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		exporter, err := otlptracegrpc.New(context.Background(), opts...)
		if err != nil {
			log.Printf("otel exporter error: %v", err)
			return nil, false
		}
		return exporter, true
	}
}

func getEnvOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
