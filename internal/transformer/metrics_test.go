package transformer

import (
	"context"
	"errors"
	"testing"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/imamik/k8xform/internal/k8s"
)

// The tests below reset package-level metrics and must not run in parallel.

func TestRecordOperationMetric(t *testing.T) {
	operationsTotal.Reset()
	operationDuration.Reset()

	recordOperationMetric(opLaunch, resultSuccess, 0.2)

	counter, err := operationsTotal.GetMetricWithLabelValues(opLaunch, resultSuccess)
	assert.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(counter))

	recordOperationMetric(opLaunch, resultError, 0.1)

	errorCounter, err := operationsTotal.GetMetricWithLabelValues(opLaunch, resultError)
	assert.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(errorCounter))

	_, err = operationDuration.GetMetricWithLabelValues(opLaunch)
	assert.NoError(t, err)
}

func TestManagerRecordsOperations(t *testing.T) {
	operationsTotal.Reset()
	operationDuration.Reset()

	ctx := context.Background()
	//nolint:staticcheck // SA1019: NewSimpleClientset is sufficient for our testing needs
	cs := fake.NewSimpleClientset()
	m := NewManager(k8s.NewFromClientset(cs), testConfig(true), WithLogger(logr.Discard()), WithMetrics(true))

	require.NoError(t, m.Launch(ctx, testRequest()))
	_, found, err := m.Status(ctx, "unknown", testNamespace)
	require.NoError(t, err)
	require.False(t, found)

	failOn(cs, "delete", "deployments", errors.New("refused"))
	require.Error(t, m.Shutdown(ctx, "1234", testNamespace))

	assert.Equal(t, float64(1), testutil.ToFloat64(operationsTotal.WithLabelValues(opLaunch, resultSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(operationsTotal.WithLabelValues(opStatus, resultNotFound)))
	assert.Equal(t, float64(1), testutil.ToFloat64(operationsTotal.WithLabelValues(opShutdown, resultError)))
}

func TestManagerWithoutMetricsRecordsNothing(t *testing.T) {
	operationsTotal.Reset()

	//nolint:staticcheck // SA1019: NewSimpleClientset is sufficient for our testing needs
	m := NewManager(k8s.NewFromClientset(fake.NewSimpleClientset()), testConfig(true), WithLogger(logr.Discard()))
	require.NoError(t, m.Launch(context.Background(), testRequest()))

	assert.Equal(t, 0, testutil.CollectAndCount(operationsTotal))
}
