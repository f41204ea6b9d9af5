package static

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"
)

// recordingChannel is an in-memory Channel for driving resources directly.
type recordingChannel struct {
	mu sync.Mutex

	req      *http.Request
	status   int
	headers  http.Header
	body     bytes.Buffer
	finished bool
	producer Producer
	writeErr error
	cached   bool
	writes   int

	// onWrite, when set, is called with the write count after each write.
	onWrite func(writes int)
}

func newRecordingChannel(method, target string) *recordingChannel {
	return &recordingChannel{
		req:     httptest.NewRequest(method, target, nil),
		status:  http.StatusOK,
		headers: make(http.Header),
	}
}

func (c *recordingChannel) Request() *http.Request { return c.req }

func (c *recordingChannel) SetStatus(code int) { c.status = code }

func (c *recordingChannel) SetHeader(key, value string) {
	if value == "" {
		c.headers.Del(key)
		return
	}
	c.headers.Set(key, value)
}

func (c *recordingChannel) AddHeader(key, value string) { c.headers.Add(key, value) }

func (c *recordingChannel) SetLastModified(t time.Time) bool {
	c.headers.Set("Last-Modified", t.UTC().Format(http.TimeFormat))
	if c.cached {
		c.status = http.StatusNotModified
	}
	return c.cached
}

func (c *recordingChannel) Write(p []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return c.writeErr
	}
	c.writes++
	c.body.Write(p)
	if c.onWrite != nil {
		c.onWrite(c.writes)
	}
	return nil
}

func (c *recordingChannel) Finish() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.finished = true
}

func (c *recordingChannel) RegisterProducer(p Producer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.producer = p
}

func (c *recordingChannel) UnregisterProducer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.producer = nil
}

func (c *recordingChannel) currentProducer() Producer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.producer
}

// drain resumes the registered producer until it unregisters.
func (c *recordingChannel) drain(t *testing.T) {
	t.Helper()
	for i := 0; i < 1<<20; i++ {
		p := c.currentProducer()
		if p == nil {
			return
		}
		p.Resume()
	}
	t.Fatal("producer never finished")
}

// countingCloser counts Close calls on an in-memory reader.
type countingCloser struct {
	*bytes.Reader
	closes int
}

func (c *countingCloser) Close() error {
	c.closes++
	if c.closes > 1 {
		return errors.New("closed twice")
	}
	return nil
}

// writeTree creates files under a fresh temporary root. Keys ending in "/"
// create directories.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if name[len(name)-1] == '/' {
			require.NoError(t, os.MkdirAll(path, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// serve runs a request through a Handler rooted at root.
func serve(t *testing.T, root string, opts Options, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	h := NewHandler(New(root, opts))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// payload returns n deterministic bytes.
func payload(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('a' + i%26)
	}
	return b
}

// recordSpans installs a global tracer provider that keeps ended spans for
// the duration of the test.
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(noop.NewTracerProvider()) })
	return recorder
}

// attrMap indexes span or event attributes by key.
func attrMap(kvs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value, len(kvs))
	for _, kv := range kvs {
		m[kv.Key] = kv.Value
	}
	return m
}
