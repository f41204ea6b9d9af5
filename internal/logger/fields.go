package logger

import "log/slog"

// Standard field keys for structured logging.
// Use these keys consistently across all log statements so request logs
// can be aggregated and queried by field.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID = "trace_id" // OpenTelemetry trace ID for request correlation
	KeySpanID  = "span_id"  // OpenTelemetry span ID for operation tracking

	// ========================================================================
	// HTTP Request
	// ========================================================================
	KeyRequestID = "request_id" // Request ID assigned by the router
	KeyMethod    = "method"     // HTTP method: GET, HEAD
	KeyPath      = "path"       // Request URL path
	KeyStatus    = "status"     // HTTP status code written
	KeyRange     = "range"      // Raw Range header value
	KeyUserAgent = "user_agent" // Client User-Agent
	KeyClientIP  = "client_ip"  // Client IP address (without port)

	// ========================================================================
	// Files
	// ========================================================================
	KeyFile        = "file"         // Resolved filesystem path
	KeySize        = "size"         // Bytes in the response window
	KeyContentType = "content_type" // Negotiated MIME type
	KeyEncoding    = "encoding"     // Negotiated content encoding

	// ========================================================================
	// Transfers
	// ========================================================================
	KeyTransferID = "transfer_id" // Transfer session UUID
	KeyBytes      = "bytes"       // Bytes written so far
	KeyDuration   = "duration_ms" // Elapsed time in milliseconds

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyError     = "error"     // Error message
	KeyComponent = "component" // Subsystem: api, metrics, config
	KeyAddress   = "address"   // Listen address
	KeyConfig    = "config"    // Configuration file path
)

// ============================================================================
// Field constructors for type safety
// ============================================================================

// TraceID returns a slog.Attr for OpenTelemetry trace ID
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// SpanID returns a slog.Attr for OpenTelemetry span ID
func SpanID(id string) slog.Attr {
	return slog.String(KeySpanID, id)
}

func RequestID(id string) slog.Attr {
	return slog.String(KeyRequestID, id)
}

func Method(m string) slog.Attr {
	return slog.String(KeyMethod, m)
}

func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// Status returns a slog.Attr for an HTTP status code
func Status(code int) slog.Attr {
	return slog.Int(KeyStatus, code)
}

func ClientIP(addr string) slog.Attr {
	return slog.String(KeyClientIP, addr)
}

func File(path string) slog.Attr {
	return slog.String(KeyFile, path)
}

func Size(n int64) slog.Attr {
	return slog.Int64(KeySize, n)
}

func Bytes(n int64) slog.Attr {
	return slog.Int64(KeyBytes, n)
}

func TransferID(id string) slog.Attr {
	return slog.String(KeyTransferID, id)
}

// DurationMs returns a slog.Attr for duration in milliseconds
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDuration, ms)
}

// Err returns a slog.Attr for an error. A nil error yields an empty value.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
