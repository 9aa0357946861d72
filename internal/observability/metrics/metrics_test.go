package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestFilterAttributesDropsIdentifiers(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("reason", "insufficient_stock"),
		attribute.String("customer_id", "456"),
		attribute.String("order_no", "ORD-20240115-0001"),
		attribute.String("rule_code", "ORDER"),
	)
	require.Len(t, attrs, 2)
	assert.Equal(t, attribute.Key("reason"), attrs[0].Key)
	assert.Equal(t, attribute.Key("rule_code"), attrs[1].Key)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.RecordOrderCreated(ctx, "PAID", 252)
		m.RecordCheckoutRejected(ctx, "validation")
		m.RecordPointsAwarded(ctx, 10)
		m.RecordNumberGenerated(ctx, "ORDER")
		m.RecordStockMovement(ctx, "SALE", 2)
	})
}

func TestNewOnNoopProvider(t *testing.T) {
	m, err := New(Config{}, noop.NewMeterProvider())
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		m.RecordOrderCreated(context.Background(), "PAID", 252)
	})
}

func TestRecordOrderCreatedExportsCountAndTotal(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	m, err := New(Config{}, sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordOrderCreated(ctx, "PAID", 252)
	m.RecordOrderCreated(ctx, "PAID", 48.5)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	found := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, metric := range sm.Metrics {
			found[metric.Name] = metric.Data
		}
	}

	sum, ok := found["retailerp_orders_created_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(2), sum.DataPoints[0].Value)

	hist, ok := found["retailerp_order_total_amount"].(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(2), hist.DataPoints[0].Count)
	assert.InDelta(t, 300.5, hist.DataPoints[0].Sum, 0.001)
}
