// Package prometheus provides the Prometheus implementations of the
// metrics interfaces used by the server.
package prometheus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/marmos91/dittoserve/pkg/metrics"
	"github.com/marmos91/dittoserve/pkg/static"
)

func init() {
	metrics.RegisterStaticMetricsConstructor(NewStaticMetrics)
}

// staticMetrics is the Prometheus implementation of static.Metrics.
type staticMetrics struct {
	responses         *prometheus.CounterVec
	bytesSent         prometheus.Counter
	transfers         *prometheus.CounterVec
	transferDuration  *prometheus.HistogramVec
	transfersInFlight prometheus.Gauge
}

// NewStaticMetrics creates a new Prometheus-backed static.Metrics.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewStaticMetrics() static.Metrics {
	if !metrics.IsEnabled() {
		return nil
	}
	return newStaticMetrics(metrics.GetRegistry())
}

func newStaticMetrics(reg prometheus.Registerer) *staticMetrics {
	return &staticMetrics{
		responses: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dittoserve_http_responses_total",
				Help: "Total number of responses by method and status code",
			},
			[]string{"method", "status"},
		),
		bytesSent: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "dittoserve_transfer_bytes_sent_total",
				Help: "Total number of file body bytes written to clients",
			},
		),
		transfers: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "dittoserve_transfers_total",
				Help: "Total number of finished transfers by outcome",
			},
			[]string{"outcome"}, // completed, stopped, failed
		),
		transferDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "dittoserve_transfer_duration_milliseconds",
				Help: "Duration of transfers in milliseconds",
				Buckets: []float64{
					1,     // 1ms - small cached files
					5,     // 5ms
					10,    // 10ms
					50,    // 50ms
					100,   // 100ms
					500,   // 500ms
					1000,  // 1s
					5000,  // 5s - large files
					30000, // 30s
				},
			},
			[]string{"outcome"},
		),
		transfersInFlight: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "dittoserve_transfers_in_flight",
				Help: "Number of transfers started and not yet finished",
			},
		),
	}
}

func (m *staticMetrics) RecordResponse(method string, status int) {
	if m == nil {
		return
	}
	m.responses.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

func (m *staticMetrics) RecordBytesSent(n int64) {
	if m == nil {
		return
	}
	m.bytesSent.Add(float64(n))
}

func (m *staticMetrics) RecordTransferStarted() {
	if m == nil {
		return
	}
	m.transfersInFlight.Inc()
}

func (m *staticMetrics) RecordTransfer(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.transfersInFlight.Dec()
	m.transfers.WithLabelValues(outcome).Inc()
	m.transferDuration.WithLabelValues(outcome).Observe(float64(duration.Microseconds()) / 1000.0)
}
