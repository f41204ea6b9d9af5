package telemetry

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys for request spans. HTTP keys follow the OpenTelemetry
// semantic conventions; file keys use the "file." prefix.
const (
	// ========================================================================
	// HTTP attributes
	// ========================================================================
	AttrHTTPMethod    = "http.request.method"
	AttrHTTPPath      = "url.path"
	AttrHTTPStatus    = "http.response.status_code"
	AttrHTTPRange     = "http.request.header.range"
	AttrHTTPBodySize  = "http.response.body.size"
	AttrClientAddress = "client.address"
	AttrRequestID     = "http.request.id"

	// ========================================================================
	// File attributes
	// ========================================================================
	AttrFilePath     = "file.path"
	AttrFileSize     = "file.size"
	AttrContentType  = "file.content_type"
	AttrEncoding     = "file.encoding"
	AttrTransferID   = "transfer.id"
	AttrTransferSent = "transfer.bytes_sent"
)

// Span and event names
const (
	SpanHTTPServe = "http.serve"

	EventTransferCompleted = "transfer.completed"
	EventTransferStopped   = "transfer.stopped"
	EventTransferFailed    = "transfer.failed"
)

// StartHTTPSpan starts the server span for one static file request.
func StartHTTPSpan(ctx context.Context, method, path string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{
		HTTPMethod(method),
		HTTPPath(path),
	}
	allAttrs = append(allAttrs, attrs...)

	return StartSpan(ctx, SpanHTTPServe,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(allAttrs...))
}

// ExtractHTTP returns ctx carrying the remote span context propagated in
// the request headers, if any.
func ExtractHTTP(ctx context.Context, header http.Header) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, propagation.HeaderCarrier(header))
}

// ============================================================================
// Attribute helpers
// ============================================================================

func HTTPMethod(method string) attribute.KeyValue {
	return attribute.String(AttrHTTPMethod, method)
}

func HTTPPath(path string) attribute.KeyValue {
	return attribute.String(AttrHTTPPath, path)
}

// HTTPStatus returns an attribute for the response status code
func HTTPStatus(code int) attribute.KeyValue {
	return attribute.Int(AttrHTTPStatus, code)
}

func HTTPRange(header string) attribute.KeyValue {
	return attribute.String(AttrHTTPRange, header)
}

// BytesSent returns an attribute for the number of body bytes written
func BytesSent(n int64) attribute.KeyValue {
	return attribute.Int64(AttrHTTPBodySize, n)
}

func ClientAddress(addr string) attribute.KeyValue {
	return attribute.String(AttrClientAddress, addr)
}

func RequestID(id string) attribute.KeyValue {
	return attribute.String(AttrRequestID, id)
}

func FilePath(path string) attribute.KeyValue {
	return attribute.String(AttrFilePath, path)
}

func FileSize(size int64) attribute.KeyValue {
	return attribute.Int64(AttrFileSize, size)
}

func ContentType(typ string) attribute.KeyValue {
	return attribute.String(AttrContentType, typ)
}

func Encoding(enc string) attribute.KeyValue {
	return attribute.String(AttrEncoding, enc)
}

func TransferID(id string) attribute.KeyValue {
	return attribute.String(AttrTransferID, id)
}

// TransferSent returns an attribute for the bytes a transfer wrote.
func TransferSent(n int64) attribute.KeyValue {
	return attribute.Int64(AttrTransferSent, n)
}
