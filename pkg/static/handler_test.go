package static

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"

	"github.com/marmos91/dittoserve/internal/telemetry"
)

func TestServeRecordsRequestSpan(t *testing.T) {
	recorder := recordSpans(t)
	root := writeTree(t, map[string]string{"page.html.gz": string(payload(100))})

	req := httptest.NewRequest(http.MethodGet, "/page.html.gz", nil)
	req.Header.Set("Range", "bytes=10-")
	rec := serve(t, root, Options{}, req)
	require.Equal(t, http.StatusPartialContent, rec.Code)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, telemetry.SpanHTTPServe, span.Name())

	attrs := attrMap(span.Attributes())
	assert.Equal(t, filepath.Join(root, "page.html.gz"), attrs[telemetry.AttrFilePath].AsString())
	assert.Equal(t, int64(100), attrs[telemetry.AttrFileSize].AsInt64())
	assert.Equal(t, "text/html", attrs[telemetry.AttrContentType].AsString())
	assert.Equal(t, "gzip", attrs[telemetry.AttrEncoding].AsString())
	assert.Equal(t, "bytes=10-", attrs[telemetry.AttrHTTPRange].AsString())
	assert.Equal(t, int64(http.StatusPartialContent), attrs[telemetry.AttrHTTPStatus].AsInt64())
	assert.Equal(t, int64(90), attrs[telemetry.AttrHTTPBodySize].AsInt64())
	assert.Equal(t, req.RemoteAddr, attrs[telemetry.AttrClientAddress].AsString())

	events := span.Events()
	require.Len(t, events, 1)
	assert.Equal(t, telemetry.EventTransferCompleted, events[0].Name)
	eventAttrs := attrMap(events[0].Attributes)
	assert.Equal(t, int64(90), eventAttrs[telemetry.AttrTransferSent].AsInt64())
	assert.NotEmpty(t, eventAttrs[telemetry.AttrTransferID].AsString())
}

func TestServeSpanWithoutFile(t *testing.T) {
	recorder := recordSpans(t)
	root := writeTree(t, map[string]string{})

	rec := serve(t, root, Options{}, httptest.NewRequest(http.MethodGet, "/missing.txt", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	attrs := attrMap(spans[0].Attributes())
	assert.Equal(t, int64(http.StatusNotFound), attrs[telemetry.AttrHTTPStatus].AsInt64())
	assert.NotContains(t, attrs, attribute.Key(telemetry.AttrFilePath))
}
