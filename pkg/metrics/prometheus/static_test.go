package prometheus

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/dittoserve/pkg/metrics"
	"github.com/marmos91/dittoserve/pkg/static"
)

func TestStaticMetrics(t *testing.T) {
	m := newStaticMetrics(prometheus.NewRegistry())

	m.RecordResponse(http.MethodGet, http.StatusOK)
	m.RecordResponse(http.MethodGet, http.StatusOK)
	m.RecordResponse(http.MethodHead, http.StatusNotFound)
	m.RecordTransferStarted()
	m.RecordTransferStarted()
	m.RecordBytesSent(100)
	m.RecordBytesSent(50)
	m.RecordTransfer(static.OutcomeCompleted, 3*time.Millisecond)

	assert.Equal(t, 2.0, value(t, m.responses.WithLabelValues("GET", "200")))
	assert.Equal(t, 1.0, value(t, m.responses.WithLabelValues("HEAD", "404")))
	assert.Equal(t, 150.0, value(t, m.bytesSent))
	assert.Equal(t, 1.0, value(t, m.transfers.WithLabelValues(static.OutcomeCompleted)))
	assert.Equal(t, 1.0, value(t, m.transfersInFlight))
}

func TestNilStaticMetrics(t *testing.T) {
	var m *staticMetrics
	assert.NotPanics(t, func() {
		m.RecordResponse("GET", 200)
		m.RecordBytesSent(1)
		m.RecordTransferStarted()
		m.RecordTransfer(static.OutcomeStopped, time.Second)
	})
}

func TestNewStaticMetricsFollowsRegistry(t *testing.T) {
	t.Cleanup(metrics.Reset)

	metrics.Reset()
	assert.Nil(t, NewStaticMetrics())
	assert.Nil(t, metrics.NewStaticMetrics())

	metrics.InitRegistry()
	require.NotNil(t, NewStaticMetrics())

	metrics.InitRegistry()
	assert.NotNil(t, metrics.NewStaticMetrics(), "constructor registered from init")
}

// value reads the current value of a single counter or gauge.
func value(t *testing.T, c prometheus.Collector) float64 {
	t.Helper()
	ch := make(chan prometheus.Metric, 1)
	c.Collect(ch)
	close(ch)

	m, ok := <-ch
	require.True(t, ok, "collector produced no metric")

	var out dto.Metric
	require.NoError(t, m.Write(&out))
	if out.Counter != nil {
		return out.GetCounter().GetValue()
	}
	return out.GetGauge().GetValue()
}
