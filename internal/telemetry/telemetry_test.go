package telemetry

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "dittoserve", cfg.ServiceName)
	assert.Equal(t, "dev", cfg.ServiceVersion)
	assert.Equal(t, "localhost:4317", cfg.Endpoint)
	assert.True(t, cfg.Insecure)
	assert.Equal(t, 1.0, cfg.SampleRate)
}

func TestInitDisabled(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.Enabled = false

	shutdown, err := Init(ctx, cfg)
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	// Should be able to call shutdown without error
	err = shutdown(ctx)
	assert.NoError(t, err)

	// Should not be enabled
	assert.False(t, IsEnabled())
}

func TestStartSpan(t *testing.T) {
	ctx := context.Background()

	// Even without initialization, StartSpan should work (no-op)
	newCtx, span := StartSpan(ctx, "test.operation")
	require.NotNil(t, newCtx)
	require.NotNil(t, span)

	// Should be able to end the span
	span.End()
}

func TestAddEvent(t *testing.T) {
	ctx := context.Background()

	// Should not panic with no active span
	require.NotPanics(t, func() {
		AddEvent(ctx, "test.event")
	})
}

func TestRecordError(t *testing.T) {
	ctx := context.Background()

	// Should not panic with nil error
	require.NotPanics(t, func() {
		RecordError(ctx, nil)
	})

	// Should not panic with error
	require.NotPanics(t, func() {
		RecordError(ctx, errors.New("test error"))
	})
}

func TestSetAttributes(t *testing.T) {
	ctx := context.Background()

	// Should not panic
	require.NotPanics(t, func() {
		SetAttributes(ctx, ClientAddress("192.168.1.1:5000"), FilePath("/srv/a.txt"))
	})
}

func TestTraceID(t *testing.T) {
	ctx := context.Background()

	// Without active span, should return empty string
	traceID := TraceID(ctx)
	assert.Equal(t, "", traceID)
}

func TestSpanID(t *testing.T) {
	ctx := context.Background()

	// Without active span, should return empty string
	spanID := SpanID(ctx)
	assert.Equal(t, "", spanID)
}

func TestAttributeHelpers(t *testing.T) {
	tests := []struct {
		name string
		got  attribute.KeyValue
		key  string
		want any
	}{
		{"HTTPMethod", HTTPMethod("GET"), AttrHTTPMethod, "GET"},
		{"HTTPPath", HTTPPath("/a.txt"), AttrHTTPPath, "/a.txt"},
		{"HTTPStatus", HTTPStatus(206), AttrHTTPStatus, int64(206)},
		{"HTTPRange", HTTPRange("bytes=0-9"), AttrHTTPRange, "bytes=0-9"},
		{"BytesSent", BytesSent(9), AttrHTTPBodySize, int64(9)},
		{"FilePath", FilePath("/srv/a.txt"), AttrFilePath, "/srv/a.txt"},
		{"FileSize", FileSize(100), AttrFileSize, int64(100)},
		{"ContentType", ContentType("text/plain"), AttrContentType, "text/plain"},
		{"Encoding", Encoding("gzip"), AttrEncoding, "gzip"},
		{"ClientAddress", ClientAddress("10.0.0.1:4000"), AttrClientAddress, "10.0.0.1:4000"},
		{"RequestID", RequestID("host/abc-000001"), AttrRequestID, "host/abc-000001"},
		{"TransferID", TransferID("abc"), AttrTransferID, "abc"},
		{"TransferSent", TransferSent(42), AttrTransferSent, int64(42)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.key, string(tt.got.Key))
			assert.Equal(t, tt.want, tt.got.Value.AsInterface())
		})
	}
}

func TestSpanHelpersWithRecordingProvider(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(noop.NewTracerProvider()) })

	ctx, span := StartHTTPSpan(context.Background(), "GET", "/a.txt")
	assert.Len(t, TraceID(ctx), 32)
	assert.Len(t, SpanID(ctx), 16)

	SetAttributes(ctx, FileSize(7))
	AddEvent(ctx, EventTransferCompleted, TransferSent(7))
	RecordError(ctx, errors.New("disk gone"))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	got := spans[0]
	assert.Equal(t, SpanHTTPServe, got.Name())
	assert.Equal(t, trace.SpanKindServer, got.SpanKind())
	assert.Contains(t, got.Attributes(), HTTPMethod("GET"))
	assert.Contains(t, got.Attributes(), FileSize(7))
	assert.Equal(t, "disk gone", got.Status().Description)

	var names []string
	for _, ev := range got.Events() {
		names = append(names, ev.Name)
	}
	assert.Contains(t, names, EventTransferCompleted)
}

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), samplerFor(1).Description())
	assert.Equal(t, sdktrace.AlwaysSample().Description(), samplerFor(2).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), samplerFor(0).Description())
	assert.Equal(t, sdktrace.TraceIDRatioBased(0.25).Description(), samplerFor(0.25).Description())
}

func TestStartHTTPSpan(t *testing.T) {
	ctx, span := StartHTTPSpan(context.Background(), "GET", "/index.html", FileSize(10))
	require.NotNil(t, ctx)
	require.NotNil(t, span)
	span.End()
}

func TestExtractHTTP(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	header := http.Header{}
	header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")

	ctx := ExtractHTTP(context.Background(), header)
	sc := trace.SpanContextFromContext(ctx)

	assert.True(t, sc.IsRemote())
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", sc.TraceID().String())
}

func TestInitProfiling(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		shutdown, err := InitProfiling(ProfilingConfig{Enabled: false})
		require.NoError(t, err)
		assert.NoError(t, shutdown())
		assert.False(t, IsProfilingEnabled())
	})

	t.Run("UnknownProfileType", func(t *testing.T) {
		_, err := InitProfiling(ProfilingConfig{Enabled: true, ProfileTypes: []string{"cpu", "disk"}})
		require.Error(t, err)
		assert.False(t, IsProfilingEnabled())
	})
}

func TestParseProfileType(t *testing.T) {
	for _, pt := range []string{"cpu", "alloc_objects", "alloc_space", "inuse_objects", "inuse_space", "goroutines", "mutex_count", "mutex_duration", "block_count", "block_duration"} {
		_, err := parseProfileType(pt)
		assert.NoError(t, err, pt)
	}
	_, err := parseProfileType("bogus")
	assert.Error(t, err)
}
