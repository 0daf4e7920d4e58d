package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// flakyStorage wraps in-memory storage with switchable failures
type flakyStorage struct {
	*cache.InMemoryCartStorage
	mu        sync.Mutex
	failLoad  bool
	failSave  bool
	saveCalls int
}

func newFlakyStorage() *flakyStorage {
	return &flakyStorage{InMemoryCartStorage: cache.NewInMemoryCartStorage()}
}

func (f *flakyStorage) Load(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	fail := f.failLoad
	f.mu.Unlock()
	if fail {
		return nil, errors.New("connection refused")
	}
	return f.InMemoryCartStorage.Load(ctx, key)
}

func (f *flakyStorage) Save(ctx context.Context, key string, payload []byte) error {
	f.mu.Lock()
	f.saveCalls++
	fail := f.failSave
	f.mu.Unlock()
	if fail {
		return errors.New("connection refused")
	}
	return f.InMemoryCartStorage.Save(ctx, key, payload)
}

type recordingMetrics struct {
	mu        sync.Mutex
	mutations []string
	degraded  []string
}

func (m *recordingMetrics) RecordCartMutation(_ context.Context, op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mutations = append(m.mutations, op)
}

func (m *recordingMetrics) RecordCartDegraded(_ context.Context, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.degraded = append(m.degraded, reason)
}

func snapshot(name string, price int64, stock int) cart.ProductSnapshot {
	return cart.ProductSnapshot{
		ID:    uuid.New(),
		Name:  name,
		Slug:  "p-" + uuid.NewString()[:8],
		Brand: "Optimum",
		Price: decimal.NewFromInt(price),
		Stock: stock,
	}
}

func TestStore_HydratesMissingAsEmpty(t *testing.T) {
	s := NewStore("cart:s1", newFlakyStorage(), nil, nil)

	v := s.View(context.Background())

	assert.Empty(t, v.Lines)
	assert.False(t, v.Degraded)
}

func TestStore_PersistsEveryMutation(t *testing.T) {
	ctx := context.Background()
	storage := newFlakyStorage()
	metrics := &recordingMetrics{}
	s := NewStore("cart:s1", storage, nil, metrics)
	whey := snapshot("Whey", 80000, 10)

	require.NoError(t, s.Add(ctx, whey, 2, nil, 10))
	payload, err := storage.Load(ctx, "cart:s1")
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"quantity":2`)
	assert.NotContains(t, string(payload), "open")

	require.NoError(t, s.Clear(ctx))
	payload, err = storage.Load(ctx, "cart:s1")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(payload))
	assert.Equal(t, []string{"add", "clear"}, metrics.mutations)
}

func TestStore_RehydratesFromStorage(t *testing.T) {
	ctx := context.Background()
	storage := newFlakyStorage()
	whey := snapshot("Whey", 80000, 10)
	flavor := &cart.FlavorSnapshot{ID: uuid.New(), Name: "Chocolate", Stock: 4}

	first := NewStore("cart:s1", storage, nil, nil)
	require.NoError(t, first.Add(ctx, whey, 1, flavor, 10))
	require.NoError(t, first.Add(ctx, whey, 2, nil, 10))

	second := NewStore("cart:s1", storage, nil, nil)
	v := second.View(ctx)
	require.Len(t, v.Lines, 2)
	assert.Equal(t, "Chocolate", v.Lines[0].FlavorName())
	assert.Equal(t, 3, v.TotalItems)
	assert.False(t, v.IsOpen)
}

func TestStore_CorruptedPayload(t *testing.T) {
	ctx := context.Background()
	for name, payload := range map[string]string{
		"not json":           `{{{`,
		"wrong shape":        `{"items":1}`,
		"zero quantity":      `[{"product":{"id":"` + uuid.NewString() + `"},"quantity":0}]`,
		"missing product id": `[{"product":{"name":"x"},"quantity":1}]`,
	} {
		t.Run(name, func(t *testing.T) {
			storage := newFlakyStorage()
			require.NoError(t, storage.Save(ctx, "cart:s1", []byte(payload)))
			core, logs := observer.New(zap.WarnLevel)
			metrics := &recordingMetrics{}

			s := NewStore("cart:s1", storage, zap.New(core), metrics)
			v := s.View(ctx)

			assert.Empty(t, v.Lines)
			assert.True(t, v.Degraded)
			assert.Equal(t, DegradedCorrupted, v.DegradedReason)
			assert.Equal(t, 1, logs.FilterMessage("cart storage degraded").Len())
			assert.Equal(t, []string{"corrupted"}, metrics.degraded)
		})
	}
}

func TestStore_ReadFailure(t *testing.T) {
	storage := newFlakyStorage()
	storage.failLoad = true

	s := NewStore("cart:s1", storage, nil, nil)
	degraded, _ := s.Degraded()
	assert.False(t, degraded, "hydration is lazy")

	v := s.View(context.Background())
	assert.Empty(t, v.Lines)
	assert.Equal(t, DegradedReadFailed, v.DegradedReason)
}

// seedStoredCart writes a cart with n lines straight to storage
func seedStoredCart(t *testing.T, storage *flakyStorage, key string, n int) []cart.ProductSnapshot {
	t.Helper()
	seeded := NewStore(key, storage, nil, nil)
	products := make([]cart.ProductSnapshot, 0, n)
	for i := 0; i < n; i++ {
		p := snapshot("Producto", 10000, 10)
		require.NoError(t, seeded.Add(context.Background(), p, 1, nil, 10))
		products = append(products, p)
	}
	return products
}

func storedLines(t *testing.T, storage *flakyStorage, key string) []cart.Line {
	t.Helper()
	payload, err := storage.InMemoryCartStorage.Load(context.Background(), key)
	require.NoError(t, err)
	c, err := decodeLines(payload)
	require.NoError(t, err)
	return c.Lines()
}

func TestStore_ReadFailureIsRetriedBeforeWriting(t *testing.T) {
	ctx := context.Background()
	storage := newFlakyStorage()
	seeded := seedStoredCart(t, storage, "cart:s1", 3)

	s := NewStore("cart:s1", storage, nil, nil)
	storage.failLoad = true
	v := s.View(ctx)
	assert.Empty(t, v.Lines)
	assert.Equal(t, DegradedReadFailed, v.DegradedReason)

	storage.failLoad = false
	creatine := snapshot("Creatina", 90000, 3)
	require.NoError(t, s.Add(ctx, creatine, 1, nil, 3))

	v = s.View(ctx)
	assert.Len(t, v.Lines, 4)
	assert.False(t, v.Degraded)

	stored := storedLines(t, storage, "cart:s1")
	require.Len(t, stored, 4)
	for i, p := range seeded {
		assert.Equal(t, p.ID, stored[i].Product.ID)
	}
	assert.Equal(t, creatine.ID, stored[3].Product.ID)
}

func TestStore_MutationsWhileUnreadableAreMergedOnRecovery(t *testing.T) {
	ctx := context.Background()
	storage := newFlakyStorage()
	seeded := seedStoredCart(t, storage, "cart:s1", 3)
	savesBefore := storage.saveCalls

	s := NewStore("cart:s1", storage, nil, nil)
	storage.failLoad = true
	require.NoError(t, s.Add(ctx, seeded[0], 2, nil, 10))

	degraded, reason := s.Degraded()
	assert.True(t, degraded)
	assert.Equal(t, DegradedReadFailed, reason)
	assert.Equal(t, savesBefore, storage.saveCalls, "nothing is written over an unread cart")
	assert.Len(t, storedLines(t, storage, "cart:s1"), 3)

	storage.failLoad = false
	v := s.View(ctx)
	require.Len(t, v.Lines, 3)
	assert.Equal(t, 3, v.Lines[0].Quantity)
	assert.False(t, v.Degraded)

	stored := storedLines(t, storage, "cart:s1")
	require.Len(t, stored, 3)
	assert.Equal(t, 3, stored[0].Quantity)
}

func TestStore_AddEnforcesAvailableStock(t *testing.T) {
	ctx := context.Background()
	s := NewStore("cart:s1", newFlakyStorage(), nil, nil)
	creatine := snapshot("Creatina", 90000, 3)

	require.NoError(t, s.Add(ctx, creatine, 2, nil, 3))
	err := s.Add(ctx, creatine, 2, nil, 3)
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)

	v := s.View(ctx)
	require.Len(t, v.Lines, 1)
	assert.Equal(t, 2, v.Lines[0].Quantity)
	assert.True(t, v.IsOpen)
}

func TestStore_WriteFailureKeepsMutationAndRecovers(t *testing.T) {
	ctx := context.Background()
	storage := newFlakyStorage()
	s := NewStore("cart:s1", storage, nil, nil)
	whey := snapshot("Whey", 80000, 10)

	storage.failSave = true
	require.NoError(t, s.Add(ctx, whey, 1, nil, 10))

	v := s.View(ctx)
	assert.Len(t, v.Lines, 1)
	assert.True(t, v.Degraded)
	assert.Equal(t, DegradedWriteFailed, v.DegradedReason)

	storage.failSave = false
	require.NoError(t, s.Add(ctx, whey, 1, nil, 10))

	degraded, _ := s.Degraded()
	assert.False(t, degraded)
	payload, err := storage.Load(ctx, "cart:s1")
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"quantity":2`)
}

func TestStore_FailedUpdateWritesNothing(t *testing.T) {
	storage := newFlakyStorage()
	s := NewStore("cart:s1", storage, nil, nil)

	err := s.Add(context.Background(), snapshot("Whey", 80000, 10), 0, nil, 10)

	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)
	assert.Equal(t, 0, storage.saveCalls)
	assert.False(t, s.IsOpen())
}

func TestStore_DrawerFlag(t *testing.T) {
	s := NewStore("cart:s1", newFlakyStorage(), nil, nil)
	assert.False(t, s.IsOpen())

	require.NoError(t, s.Add(context.Background(), snapshot("Whey", 80000, 10), 1, nil, 10))
	assert.True(t, s.IsOpen())

	s.SetOpen(false)
	assert.False(t, s.IsOpen())
}

func TestStore_ConcurrentAddsAreSerialized(t *testing.T) {
	ctx := context.Background()
	s := NewStore("cart:s1", newFlakyStorage(), nil, nil)
	whey := snapshot("Whey", 80000, 1000)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Add(ctx, whey, 1, nil, 1000)
		}()
	}
	wg.Wait()

	v := s.View(ctx)
	require.Len(t, v.Lines, 1)
	assert.Equal(t, 50, v.Lines[0].Quantity)
}
