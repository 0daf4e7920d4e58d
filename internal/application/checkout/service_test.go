package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	appcart "github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/checkout"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// MockOrderRepository is a mock implementation of order.Repository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

// MockDispatcher is a mock implementation of Dispatcher
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, transcript string) (string, error) {
	args := m.Called(ctx, transcript)
	return args.String(0), args.Error(1)
}

type recordingMetrics struct {
	mu               sync.Mutex
	attempts         []string
	placed           int
	placedItems      int
	dispatchFailures int
}

func (m *recordingMetrics) RecordCheckoutAttempt(_ context.Context, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts = append(m.attempts, outcome)
}

func (m *recordingMetrics) RecordOrderPlaced(_ context.Context, _ decimal.Decimal, items int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.placed++
	m.placedItems += items
}

func (m *recordingMetrics) RecordDispatchFailure(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dispatchFailures++
}

type checkoutFixture struct {
	service    *Service
	registry   *appcart.Registry
	orders     *MockOrderRepository
	dispatcher *MockDispatcher
	metrics    *recordingMetrics
	logs       *observer.ObservedLogs
}

func newCheckoutFixture(t *testing.T, persist bool) *checkoutFixture {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	log := zap.New(core)
	registry := appcart.NewRegistry(cache.NewInMemoryCartStorage(), appcart.RegistryConfig{}, log, nil)
	orders := new(MockOrderRepository)
	dispatcher := new(MockDispatcher)
	metrics := &recordingMetrics{}

	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(NewOrderPlacedHandler(metrics, log))

	svc := NewService(registry, order.NewFormatter(nil), dispatcher, Config{PersistOrders: persist}, log,
		WithOrderRepository(orders),
		WithEventPublisher(bus),
		WithMetrics(metrics),
	)
	t.Cleanup(func() {
		orders.AssertExpectations(t)
		dispatcher.AssertExpectations(t)
	})
	return &checkoutFixture{
		service:    svc,
		registry:   registry,
		orders:     orders,
		dispatcher: dispatcher,
		metrics:    metrics,
		logs:       logs,
	}
}

func (f *checkoutFixture) addWhey(t *testing.T, sessionID string) {
	t.Helper()
	discounted := decimal.NewFromInt(80000)
	whey := cart.ProductSnapshot{
		ID:              uuid.New(),
		Name:            "Whey 1kg",
		Slug:            "whey-1kg",
		Price:           decimal.NewFromInt(100000),
		DiscountedPrice: &discounted,
		Stock:           10,
	}
	require.NoError(t, f.registry.Store(sessionID).Add(context.Background(), whey, 2, nil, 10))
}

func (f *checkoutFixture) cartLines(sessionID string) []cart.Line {
	return f.registry.Store(sessionID).View(context.Background()).Lines
}

func validBuyer() order.BuyerDetails {
	return order.BuyerDetails{Name: "Ana", Email: "ana@example.com", ShippingAddress: "Calle 1 #2-3"}
}

const wheyTranscript = "¡Hola! Quiero realizar un pedido:\n\n" +
	"• Whey 1kg x2 = $ 160.000\n\n" +
	"Subtotal: $ 160.000\n" +
	"Total: $ 160.000\n\n" +
	"Datos del cliente:\n" +
	"Nombre: Ana\n" +
	"Correo: ana@example.com\n" +
	"Dirección: Calle 1 #2-3\n"

func TestService_Submit_Completes(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t, true)
	f.addWhey(t, "s1")

	var stored *order.Order
	f.orders.On("Create", mock.Anything, mock.AnythingOfType("*order.Order")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*order.Order) }).
		Return(nil).Once()
	f.dispatcher.On("Dispatch", mock.Anything, wheyTranscript).
		Return("https://api.whatsapp.com/send?phone=573028426828&text=x", nil).Once()

	result, err := f.service.Submit(ctx, "s1", validBuyer())

	require.NoError(t, err)
	assert.Equal(t, checkout.StateCompleted, result.State)
	assert.Equal(t, wheyTranscript, result.Transcript)
	assert.Equal(t, "https://api.whatsapp.com/send?phone=573028426828&text=x", result.DispatchURL)
	assert.True(t, result.Subtotal.Equal(decimal.NewFromInt(160000)))
	assert.True(t, result.Total.Equal(result.Subtotal))
	require.NotNil(t, result.OrderID)

	require.NotNil(t, stored)
	assert.Equal(t, *result.OrderID, stored.ID)
	assert.Equal(t, order.StatusPending, stored.Status)
	assert.Equal(t, "Ana", stored.CustomerName)
	assert.Empty(t, stored.GetDomainEvents())

	assert.Empty(t, f.cartLines("s1"))
	assert.Equal(t, []string{OutcomeCompleted}, f.metrics.attempts)
	assert.Equal(t, 1, f.metrics.placed)
	assert.Equal(t, 2, f.metrics.placedItems)
	placedLogs := f.logs.FilterMessage("order placed").All()
	require.Len(t, placedLogs, 1)
	assert.Equal(t, true, placedLogs[0].ContextMap()["persisted"])
}

func TestService_Submit_TrimsBuyerFields(t *testing.T) {
	f := newCheckoutFixture(t, false)
	f.addWhey(t, "s1")
	f.dispatcher.On("Dispatch", mock.Anything, wheyTranscript).Return("url", nil).Once()

	buyer := order.BuyerDetails{Name: "  Ana ", Email: " ana@example.com", ShippingAddress: "Calle 1 #2-3  ", Phone: "   ", Notes: "\t"}
	result, err := f.service.Submit(context.Background(), "s1", buyer)

	require.NoError(t, err)
	assert.Equal(t, wheyTranscript, result.Transcript)
	assert.Nil(t, result.OrderID)
}

func TestService_Submit_ValidationFailure(t *testing.T) {
	for name, buyer := range map[string]order.BuyerDetails{
		"missing name":             {Email: "ana@example.com", ShippingAddress: "Calle 1"},
		"whitespace name":          {Name: "   ", Email: "ana@example.com", ShippingAddress: "Calle 1"},
		"missing email":            {Name: "Ana", ShippingAddress: "Calle 1"},
		"missing shipping address": {Name: "Ana", Email: "ana@example.com"},
		"everything blank":         {},
	} {
		t.Run(name, func(t *testing.T) {
			f := newCheckoutFixture(t, true)
			f.addWhey(t, "s1")
			before := f.cartLines("s1")

			result, err := f.service.Submit(context.Background(), "s1", buyer)

			assert.Nil(t, result)
			var domainErr *shared.DomainError
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
			assert.Equal(t, "Por favor completa todos los campos obligatorios", domainErr.Message)
			assert.Equal(t, before, f.cartLines("s1"))
			f.dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
			f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			assert.Equal(t, []string{OutcomeInvalid}, f.metrics.attempts)
		})
	}
}

func TestService_Submit_EmptyCart(t *testing.T) {
	f := newCheckoutFixture(t, true)

	_, err := f.service.Submit(context.Background(), "s1", validBuyer())

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, []string{OutcomeEmptyCart}, f.metrics.attempts)
}

func TestService_Submit_PersistFailureLeavesCart(t *testing.T) {
	f := newCheckoutFixture(t, true)
	f.addWhey(t, "s1")
	f.orders.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset")).Once()

	_, err := f.service.Submit(context.Background(), "s1", validBuyer())

	assert.ErrorIs(t, err, ErrPersistFailed)
	assert.Len(t, f.cartLines("s1"), 1)
	f.dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
	assert.Equal(t, 0, f.metrics.placed)
	assert.Equal(t, []string{OutcomePersistFailed}, f.metrics.attempts)
}

func TestService_Submit_DispatchFailureStillCompletes(t *testing.T) {
	f := newCheckoutFixture(t, false)
	f.addWhey(t, "s1")
	f.dispatcher.On("Dispatch", mock.Anything, mock.Anything).Return("", errors.New("channel down")).Once()

	result, err := f.service.Submit(context.Background(), "s1", validBuyer())

	require.NoError(t, err)
	assert.Equal(t, checkout.StateCompleted, result.State)
	assert.Empty(t, result.DispatchURL)
	assert.Empty(t, f.cartLines("s1"))
	assert.Equal(t, 1, f.metrics.dispatchFailures)
	assert.Equal(t, 1, f.logs.FilterMessage("order dispatch failed").Len())
}

func TestService_Submit_SessionsAreIndependent(t *testing.T) {
	f := newCheckoutFixture(t, false)
	f.addWhey(t, "s1")
	f.addWhey(t, "s2")
	f.dispatcher.On("Dispatch", mock.Anything, mock.Anything).Return("url", nil).Once()

	_, err := f.service.Submit(context.Background(), "s1", validBuyer())

	require.NoError(t, err)
	assert.Empty(t, f.cartLines("s1"))
	assert.Len(t, f.cartLines("s2"), 1)
}

func TestOrderPlacedHandler_RejectsOtherEvents(t *testing.T) {
	h := NewOrderPlacedHandler(nil, nil)
	assert.Equal(t, []string{order.EventTypeOrderPlaced}, h.EventTypes())

	other := shared.NewBaseDomainEvent("Other", "Thing", uuid.New())
	err := h.Handle(context.Background(), &other)
	assert.Error(t, err)
}
