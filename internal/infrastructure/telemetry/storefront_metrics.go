package telemetry

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Attribute keys used by storefront metrics
var (
	AttrOperation = attribute.Key("operation")
	AttrOutcome   = attribute.Key("outcome")
	AttrReason    = attribute.Key("reason")
)

// StorefrontMetrics records cart and checkout activity.
type StorefrontMetrics struct {
	cartMutations    *Counter
	cartDegraded     *Counter
	checkoutAttempts *Counter
	ordersPlaced     *Counter
	orderAmount      *Counter
	orderItems       *Histogram
	dispatchFailures *Counter
}

// NewStorefrontMetrics creates the instruments on meter.
func NewStorefrontMetrics(meter metric.Meter) (*StorefrontMetrics, error) {
	if meter == nil {
		return nil, errors.New("NewStorefrontMetrics: meter cannot be nil")
	}
	var err error
	m := &StorefrontMetrics{}
	if m.cartMutations, err = NewCounter(meter, "storefront_cart_mutations_total", "Cart mutations by operation", "{mutation}"); err != nil {
		return nil, err
	}
	if m.cartDegraded, err = NewCounter(meter, "storefront_cart_storage_degraded_total", "Cart storage read or write failures", "{event}"); err != nil {
		return nil, err
	}
	if m.checkoutAttempts, err = NewCounter(meter, "storefront_checkout_attempts_total", "Checkout attempts by outcome", "{attempt}"); err != nil {
		return nil, err
	}
	if m.ordersPlaced, err = NewCounter(meter, "storefront_orders_placed_total", "Orders placed", "{order}"); err != nil {
		return nil, err
	}
	if m.orderAmount, err = NewCounter(meter, "storefront_order_amount_total", "Placed order value in pesos", "COP"); err != nil {
		return nil, err
	}
	if m.orderItems, err = NewHistogram(meter, "storefront_order_items", "Units per placed order", "{item}", 1, 2, 3, 5, 8, 13, 21); err != nil {
		return nil, err
	}
	if m.dispatchFailures, err = NewCounter(meter, "storefront_dispatch_failures_total", "Messaging channel dispatch failures", "{failure}"); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordCartMutation counts one cart mutation
func (m *StorefrontMetrics) RecordCartMutation(ctx context.Context, operation string) {
	m.cartMutations.Inc(ctx, AttrOperation.String(operation))
}

// RecordCartDegraded counts one cart storage failure
func (m *StorefrontMetrics) RecordCartDegraded(ctx context.Context, reason string) {
	m.cartDegraded.Inc(ctx, AttrReason.String(reason))
}

// RecordCheckoutAttempt counts a checkout attempt ending with outcome
func (m *StorefrontMetrics) RecordCheckoutAttempt(ctx context.Context, outcome string) {
	m.checkoutAttempts.Inc(ctx, AttrOutcome.String(outcome))
}

// RecordOrderPlaced counts a placed order and its value
func (m *StorefrontMetrics) RecordOrderPlaced(ctx context.Context, total decimal.Decimal, items int) {
	m.ordersPlaced.Inc(ctx)
	m.orderAmount.Add(ctx, total.Round(0).IntPart())
	m.orderItems.Record(ctx, float64(items))
}

// RecordDispatchFailure counts a failed hand-off to the messaging channel
func (m *StorefrontMetrics) RecordDispatchFailure(ctx context.Context) {
	m.dispatchFailures.Inc(ctx)
}
