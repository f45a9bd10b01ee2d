// Package otel bootstraps OpenTelemetry tracing and carries the tracer
// through request contexts.
package otel

import (
	"context"
	"fmt"

	gootel "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"pizzaflow/pkg/logger"
)

// Config configures tracing. An empty Host keeps spans in-process only.
type Config struct {
	ServiceName string
	Host        string
	Probability float64
}

// InitTracing installs a global tracer provider and returns it together with
// its shutdown function.
func InitTracing(log *logger.Logger, cfg Config) (*sdktrace.TracerProvider, func(context.Context) error, error) {
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.Probability))),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName))),
	}

	if cfg.Host != "" {
		exp, err := otlptracegrpc.New(context.Background(),
			otlptracegrpc.WithEndpoint(cfg.Host),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("otlp exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exp))
		log.Info(context.Background(), "tracing exporter enabled", "endpoint", cfg.Host, "probability", cfg.Probability)
	} else {
		log.Info(context.Background(), "tracing exporter disabled")
	}

	tp := sdktrace.NewTracerProvider(opts...)
	gootel.SetTracerProvider(tp)
	gootel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	return tp, tp.Shutdown, nil
}

type tracerKey struct{}

// InjectTracing stores tracer in ctx for later AddSpan calls.
func InjectTracing(ctx context.Context, tracer trace.Tracer) context.Context {
	return context.WithValue(ctx, tracerKey{}, tracer)
}

// AddSpan starts a span named name with the tracer found in ctx. Without an
// injected tracer the span is a no-op.
func AddSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer, ok := ctx.Value(tracerKey{}).(trace.Tracer)
	if !ok {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// GetTraceID returns the trace id of the span in ctx, or "".
func GetTraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
