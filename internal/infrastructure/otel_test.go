package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

// TestOTelInitialization tests OpenTelemetry initialization
func TestOTelInitialization(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	providers, err := InitializeOTel(nil, logger)
	require.NoError(t, err)
	require.NotNil(t, providers)

	// Tracing is off by default; metrics with the Prometheus bridge are on
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.PrometheusHTTP)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = providers.Shutdown(ctx)
	assert.NoError(t, err)
}

// TestTraceCorrelation tests trace ID correlation
func TestTraceCorrelation(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg := DefaultOTelConfig()
	cfg.EnableTracing = true
	cfg.TraceExporter = "stdout"

	providers, err := InitializeOTel(cfg, logger)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	ctx := context.Background()

	tracer := otel.Tracer("test")
	ctx, span := tracer.Start(ctx, "test-operation")
	defer span.End()

	traceID := TraceIDFromContext(ctx)
	assert.NotEmpty(t, traceID)

	expectedTraceID := span.SpanContext().TraceID().String()
	assert.Equal(t, expectedTraceID, traceID)

	ctx = WithTraceID(ctx, traceID)
	retrievedTraceID := GetTraceID(ctx)
	assert.Equal(t, traceID, retrievedTraceID)
}

// TestBusinessMetrics tests business metrics creation
func TestBusinessMetrics(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	providers, err := InitializeOTel(DefaultOTelConfig(), logger)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)
	require.NotNil(t, metrics)

	// HTTP metrics
	assert.NotNil(t, metrics.HTTPRequestsTotal)
	assert.NotNil(t, metrics.HTTPRequestDuration)
	assert.NotNil(t, metrics.HTTPActiveRequests)

	// Source fetch metrics
	assert.NotNil(t, metrics.SourceFetchesTotal)
	assert.NotNil(t, metrics.SourceFetchDuration)
	assert.NotNil(t, metrics.SourceFailuresTotal)

	// Pipeline metrics
	assert.NotNil(t, metrics.SnapshotBuildsTotal)
	assert.NotNil(t, metrics.SnapshotBuildDuration)
	assert.NotNil(t, metrics.StaleGenerationsTotal)

	assert.NotNil(t, metrics.WatchlistApplies)
	assert.NotNil(t, metrics.SystemErrors)
}

// TestMetricRecording verifies recording helpers tolerate nil metrics and
// record without panicking on real instruments.
func TestMetricRecording(t *testing.T) {
	ctx := context.Background()

	// nil metrics are a no-op
	RecordFetchMetrics(ctx, nil, "quote", time.Second, true)
	RecordParseFailure(ctx, nil, "quote")
	RecordSnapshotBuild(ctx, nil, time.Second, 0)
	RecordStaleGeneration(ctx, nil, "web")

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	providers, err := InitializeOTel(DefaultOTelConfig(), logger)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)

	RecordFetchMetrics(ctx, metrics, "quote", 120*time.Millisecond, true)
	RecordFetchMetrics(ctx, metrics, "futures", 80*time.Millisecond, false)
	RecordParseFailure(ctx, metrics, "broker")
	RecordSnapshotBuild(ctx, metrics, 2*time.Second, 1)
	RecordStaleGeneration(ctx, metrics, "web")
}

// TestSpanOperations tests span helpers
func TestSpanOperations(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg := DefaultOTelConfig()
	cfg.EnableTracing = true
	cfg.TraceExporter = "stdout"

	providers, err := InitializeOTel(cfg, logger)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	ctx := context.Background()
	tracer := otel.Tracer("test")
	ctx, span := tracer.Start(ctx, "test-span")
	defer span.End()

	AddSpanEvent(ctx, "test-event", map[string]interface{}{
		"string_attr": "test_value",
		"int_attr":    42,
		"bool_attr":   true,
	})

	RecordError(ctx, fmt.Errorf("quote feed unavailable"))
	assert.True(t, span.IsRecording())
}
