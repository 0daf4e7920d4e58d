package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), Config{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	mp, err := NewMeterProvider(context.Background(), MetricsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(context.Background()))
}

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), samplerFor(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), samplerFor(0).Description())
	assert.Contains(t, samplerFor(0.5).Description(), "ParentBased")
}

func TestServiceSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	_, span := StartServiceSpan(context.Background(), "CheckoutService", "Submit")
	EndSpan(span, errors.New("boom"))
	_, span = StartServiceSpan(context.Background(), "CartService", "Add")
	EndSpan(span, nil)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "CheckoutService.Submit", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "CartService.Add", spans[1].Name())
	assert.Equal(t, codes.Ok, spans[1].Status().Code)
}

func TestNewStorefrontMetrics_NilMeter(t *testing.T) {
	_, err := NewStorefrontMetrics(nil)
	assert.Error(t, err)
}

func TestStorefrontMetrics_Record(t *testing.T) {
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	m, err := NewStorefrontMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordCartMutation(ctx, "add")
	m.RecordCartMutation(ctx, "add")
	m.RecordCartDegraded(ctx, "write_failed")
	m.RecordCheckoutAttempt(ctx, "completed")
	m.RecordOrderPlaced(ctx, decimal.NewFromInt(160000), 3)
	m.RecordDispatchFailure(ctx)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	sums := map[string]int64{}
	for _, md := range rm.ScopeMetrics[0].Metrics {
		if sum, ok := md.Data.(metricdata.Sum[int64]); ok {
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			sums[md.Name] = total
		}
	}
	assert.Equal(t, int64(2), sums["storefront_cart_mutations_total"])
	assert.Equal(t, int64(1), sums["storefront_cart_storage_degraded_total"])
	assert.Equal(t, int64(1), sums["storefront_checkout_attempts_total"])
	assert.Equal(t, int64(1), sums["storefront_orders_placed_total"])
	assert.Equal(t, int64(160000), sums["storefront_order_amount_total"])
	assert.Equal(t, int64(1), sums["storefront_dispatch_failures_total"])
}
