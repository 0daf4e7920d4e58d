// Package checkout turns a session's cart into a placed order.
package checkout

import (
	"context"

	"github.com/shopspring/decimal"
	appcart "github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/checkout"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Checkout errors
var (
	ErrEmptyCart     = shared.NewDomainError("EMPTY_CART", "Tu carrito está vacío")
	ErrPersistFailed = shared.NewDomainError("INTERNAL_ERROR", "No pudimos registrar tu pedido, intenta de nuevo")
)

// Attempt outcomes recorded in metrics
const (
	OutcomeCompleted     = "completed"
	OutcomeEmptyCart     = "empty_cart"
	OutcomeInvalid       = "invalid"
	OutcomePersistFailed = "persist_failed"
)

// Dispatcher hands a transcript to the messaging channel and returns the
// link the buyer follows to send it
type Dispatcher interface {
	Dispatch(ctx context.Context, transcript string) (string, error)
}

// Metrics receives checkout activity
type Metrics interface {
	RecordCheckoutAttempt(ctx context.Context, outcome string)
	RecordOrderPlaced(ctx context.Context, total decimal.Decimal, items int)
	RecordDispatchFailure(ctx context.Context)
}

type noopMetrics struct{}

func (noopMetrics) RecordCheckoutAttempt(context.Context, string)           {}
func (noopMetrics) RecordOrderPlaced(context.Context, decimal.Decimal, int) {}
func (noopMetrics) RecordDispatchFailure(context.Context)                   {}

// Config controls checkout side effects
type Config struct {
	PersistOrders bool
}

// Service orchestrates one checkout attempt per Submit call
type Service struct {
	carts      *appcart.Registry
	formatter  *order.Formatter
	orders     order.Repository
	dispatcher Dispatcher
	events     shared.EventPublisher
	metrics    Metrics
	cfg        Config
	logger     *zap.Logger
}

// ServiceOption configures optional collaborators
type ServiceOption func(*Service)

// WithOrderRepository stores placed orders when persistence is enabled
func WithOrderRepository(repo order.Repository) ServiceOption {
	return func(s *Service) { s.orders = repo }
}

// WithEventPublisher publishes OrderPlaced events
func WithEventPublisher(events shared.EventPublisher) ServiceOption {
	return func(s *Service) { s.events = events }
}

// WithMetrics records checkout metrics
func WithMetrics(m Metrics) ServiceOption {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// NewService creates a new checkout Service
func NewService(carts *appcart.Registry, formatter *order.Formatter, dispatcher Dispatcher, cfg Config, log *zap.Logger, opts ...ServiceOption) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		carts:      carts,
		formatter:  formatter,
		dispatcher: dispatcher,
		metrics:    noopMetrics{},
		cfg:        cfg,
		logger:     log,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.orders == nil {
		s.cfg.PersistOrders = false
	}
	return s
}

// Submit validates the buyer details and places the session's cart as an
// order. The cart is emptied only once the attempt completes; any earlier
// failure leaves it as it was.
func (s *Service) Submit(ctx context.Context, sessionID string, buyer order.BuyerDetails) (result *Result, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "CheckoutService", "Submit")
	defer func() { telemetry.EndSpan(span, err) }()

	log := logger.For(ctx, s.logger)
	store := s.carts.Store(sessionID)

	err = store.Update(ctx, "checkout", func(c *cart.Cart) error {
		if c.IsEmpty() {
			s.metrics.RecordCheckoutAttempt(ctx, OutcomeEmptyCart)
			return ErrEmptyCart
		}

		attempt := checkout.NewAttempt()
		if err := attempt.TransitionTo(checkout.StateValidating); err != nil {
			return err
		}
		if missing := buyer.MissingFields(); len(missing) > 0 {
			if err := attempt.Reject(); err != nil {
				return err
			}
			s.metrics.RecordCheckoutAttempt(ctx, OutcomeInvalid)
			log.Debug("checkout rejected", zap.Strings("missing_fields", missing))
			return order.ErrMissingRequiredFields
		}
		if err := attempt.TransitionTo(checkout.StateSubmitting); err != nil {
			return err
		}

		r, err := s.submit(ctx, c.Lines(), buyer)
		if err != nil {
			return err
		}
		if err := attempt.TransitionTo(checkout.StateCompleted); err != nil {
			return err
		}
		c.Clear()
		r.State = attempt.State()
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordCheckoutAttempt(ctx, OutcomeCompleted)
	span.SetAttributes(attribute.String("checkout.state", string(result.State)))
	return result, nil
}

// submit formats, persists, dispatches and announces the order
func (s *Service) submit(ctx context.Context, lines []cart.Line, buyer order.BuyerDetails) (*Result, error) {
	log := logger.For(ctx, s.logger)
	receipt := s.formatter.Format(lines, buyer)

	o, err := order.NewOrder(receipt.Record)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Transcript: receipt.Transcript,
		Items:      receipt.Record.Items,
		Subtotal:   receipt.Record.Subtotal,
		Total:      receipt.Record.Total,
	}

	if s.cfg.PersistOrders {
		if err := s.orders.Create(ctx, o); err != nil {
			s.metrics.RecordCheckoutAttempt(ctx, OutcomePersistFailed)
			log.Error("failed to persist order", zap.String("order_id", o.ID.String()), zap.Error(err))
			return nil, shared.WrapDomainError(ErrPersistFailed.Code, ErrPersistFailed.Message, err)
		}
		o.MarkPersisted()
		id := o.ID
		result.OrderID = &id
	}

	url, err := s.dispatcher.Dispatch(ctx, receipt.Transcript)
	if err != nil {
		s.metrics.RecordDispatchFailure(ctx)
		log.Warn("order dispatch failed", zap.String("order_id", o.ID.String()), zap.Error(err))
	}
	result.DispatchURL = url

	if s.events != nil {
		if err := s.events.Publish(ctx, o.GetDomainEvents()...); err != nil {
			log.Warn("failed to publish order events", zap.Error(err))
		}
	}
	o.ClearDomainEvents()
	return result, nil
}
