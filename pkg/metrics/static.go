package metrics

import "github.com/marmos91/dittoserve/pkg/static"

// NewStaticMetrics creates a Prometheus-backed static.Metrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called) or no
// implementation has been registered. When nil is returned, callers
// should leave static.Options.Metrics unset, which results in zero
// overhead.
//
// Example usage:
//
//	metrics.InitRegistry()
//	opts.Metrics = metrics.NewStaticMetrics()
func NewStaticMetrics() static.Metrics {
	if !IsEnabled() || newPrometheusStaticMetrics == nil {
		return nil
	}
	return newPrometheusStaticMetrics()
}

// newPrometheusStaticMetrics is implemented in pkg/metrics/prometheus.
// The indirection keeps this package free of an import cycle.
var newPrometheusStaticMetrics func() static.Metrics

// RegisterStaticMetricsConstructor registers the Prometheus constructor.
// Called by pkg/metrics/prometheus during package initialization.
func RegisterStaticMetricsConstructor(constructor func() static.Metrics) {
	newPrometheusStaticMetrics = constructor
}
