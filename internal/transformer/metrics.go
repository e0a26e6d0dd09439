package transformer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

// Operation label values.
const (
	opLaunch   = "launch"
	opStatus   = "status"
	opShutdown = "shutdown"
	opPackage  = "package"
)

// Result label values.
const (
	resultSuccess  = "success"
	resultError    = "error"
	resultNotFound = "not_found"
)

var (
	operationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "k8xform",
			Subsystem: "transformer",
			Name:      "operations_total",
			Help:      "Total number of transformer lifecycle operations by result",
		},
		[]string{"operation", "result"},
	)

	operationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "k8xform",
			Subsystem: "transformer",
			Name:      "operation_duration_seconds",
			Help:      "Duration of transformer lifecycle operations in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~10s
		},
		[]string{"operation"},
	)
)

func init() {
	metrics.Registry.MustRegister(
		operationsTotal,
		operationDuration,
	)
}

// recordOperationMetric records the outcome of one lifecycle operation.
func recordOperationMetric(operation, result string, duration float64) {
	operationsTotal.WithLabelValues(operation, result).Inc()
	operationDuration.WithLabelValues(operation).Observe(duration)
}

func (m *Manager) recordOperation(operation, result string, start time.Time) {
	if m.enableMetrics {
		recordOperationMetric(operation, result, time.Since(start).Seconds())
	}
}

func resultOf(err error) string {
	if err != nil {
		return resultError
	}
	return resultSuccess
}
