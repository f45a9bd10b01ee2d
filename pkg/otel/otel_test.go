package otel

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"pizzaflow/pkg/logger"
)

func TestAddSpanWithoutTracerIsNoop(t *testing.T) {
	ctx, span := AddSpan(context.Background(), "noop")
	defer span.End()
	assert.False(t, span.SpanContext().IsValid())
	assert.Empty(t, GetTraceID(ctx))
}

func TestAddSpanUsesInjectedTracer(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx := InjectTracing(context.Background(), tp.Tracer("test"))
	ctx, span := AddSpan(ctx, "handler")
	defer span.End()

	require.True(t, span.SpanContext().IsValid())
	assert.Equal(t, span.SpanContext().TraceID().String(), GetTraceID(ctx))
}

func TestInitTracingWithoutExporter(t *testing.T) {
	log := logger.New(io.Discard, logger.LevelInfo, "test", GetTraceID)
	tp, shutdown, err := InitTracing(log, Config{ServiceName: "pizzaria", Probability: 1})
	require.NoError(t, err)
	require.NotNil(t, tp)
	assert.NoError(t, shutdown(context.Background()))
}
