package telemetry

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDisabledTracerProvider(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), Config{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NoError(t, tp.Shutdown(context.Background()))
	assert.NotNil(t, Tracer())
}

func TestSampler(t *testing.T) {
	assert.Equal(t, "AlwaysOnSampler", sampler(1).Description())
	assert.Equal(t, "AlwaysOffSampler", sampler(0).Description())
	assert.Contains(t, sampler(0.5).Description(), "TraceIDRatioBased")
}

func TestMetrics(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.OrderPlaced(false, 120.5)
	m.OrderPlaced(true, 10)
	m.OrderFailed("ERR_INSUFFICIENT_STOCK")
	m.StockReserved("ok")
	m.StockReserved("ok")
	m.IdempotentReplay()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ordersPlaced.WithLabelValues("user")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ordersPlaced.WithLabelValues("guest")))
	assert.Equal(t, 130.5, testutil.ToFloat64(m.orderRevenue))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.orderFailures.WithLabelValues("ERR_INSUFFICIENT_STOCK")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.stockReservations.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.idempotentReplays))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.OrderPlaced(true, 1)
		m.OrderFailed("x")
		m.StockReserved("ok")
		m.IdempotentReplay()
	})
}
