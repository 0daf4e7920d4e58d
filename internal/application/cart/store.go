package cart

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// DegradedReason explains why a store no longer mirrors its storage
type DegradedReason string

const (
	// DegradedCorrupted means the stored payload could not be parsed
	DegradedCorrupted DegradedReason = "corrupted"
	// DegradedReadFailed means the storage could not be read
	DegradedReadFailed DegradedReason = "read_failed"
	// DegradedWriteFailed means the last write did not reach storage
	DegradedWriteFailed DegradedReason = "write_failed"
)

// Metrics receives cart activity
type Metrics interface {
	RecordCartMutation(ctx context.Context, operation string)
	RecordCartDegraded(ctx context.Context, reason string)
}

type noopMetrics struct{}

func (noopMetrics) RecordCartMutation(context.Context, string) {}
func (noopMetrics) RecordCartDegraded(context.Context, string) {}

// View is a consistent read of a store
type View struct {
	Lines          []cart.Line
	TotalItems     int
	IsOpen         bool
	Degraded       bool
	DegradedReason DegradedReason
}

// Store owns the cart of one session. Operations run one at a time and
// every mutation writes the full line list back to storage.
type Store struct {
	mu       sync.Mutex
	key      string
	cart     *cart.Cart
	hydrated bool
	open     bool
	degraded DegradedReason

	storage  cart.Storage
	logger   *zap.Logger
	metrics  Metrics
	lastUsed atomic.Int64
}

// NewStore creates a store for key. It hydrates lazily on first use.
func NewStore(key string, storage cart.Storage, log *zap.Logger, metrics Metrics) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	s := &Store{
		key:     key,
		cart:    cart.New(),
		storage: storage,
		logger:  log.With(zap.String("cart_key", key)),
		metrics: metrics,
	}
	s.touch(time.Now())
	return s
}

// Update applies fn to the cart and persists the result. When fn fails
// nothing is written and its error is returned.
func (s *Store) Update(ctx context.Context, operation string, fn func(c *cart.Cart) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrate(ctx)

	if err := fn(s.cart); err != nil {
		return err
	}
	s.metrics.RecordCartMutation(ctx, operation)
	if !s.hydrated {
		// stored cart still unread
		return nil
	}
	s.persist(ctx)
	return nil
}

// View returns the current lines and flags
func (s *Store) View(ctx context.Context) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrate(ctx)
	return s.viewLocked()
}

// Add merges quantity units into the matching line and opens the drawer.
// The resulting line may hold at most available units.
func (s *Store) Add(ctx context.Context, product cart.ProductSnapshot, quantity int, flavor *cart.FlavorSnapshot, available int) error {
	return s.Update(ctx, "add", func(c *cart.Cart) error {
		current := 0
		if line, ok := c.Line(cart.NewLineKey(product.ID, flavorID(flavor))); ok {
			current = line.Quantity
		}
		if quantity >= 1 && current+quantity > available {
			return insufficientStock(available, current)
		}
		if err := c.AddToCart(product, quantity, flavor); err != nil {
			return err
		}
		s.open = true
		return nil
	})
}

// Clear empties the cart
func (s *Store) Clear(ctx context.Context) error {
	return s.Update(ctx, "clear", func(c *cart.Cart) error {
		c.Clear()
		return nil
	})
}

// SetOpen sets the drawer flag. It is never persisted.
func (s *Store) SetOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = open
}

// IsOpen reports the drawer flag
func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Degraded reports whether the store diverged from storage, and why
func (s *Store) Degraded() (bool, DegradedReason) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded != "", s.degraded
}

func (s *Store) viewLocked() View {
	return View{
		Lines:          s.cart.Lines(),
		TotalItems:     s.cart.TotalItems(),
		IsOpen:         s.open,
		Degraded:       s.degraded != "",
		DegradedReason: s.degraded,
	}
}

// hydrate loads the stored cart once. Missing data is an empty cart and
// a corrupted payload is an empty cart flagged as degraded. A failed read
// is retried on the next operation; lines added meanwhile are merged into
// the stored cart once it loads.
func (s *Store) hydrate(ctx context.Context) {
	if s.hydrated {
		return
	}

	payload, err := s.storage.Load(ctx, s.key)
	switch {
	case err == nil:
	case errors.Is(err, cart.ErrCartNotFound):
		s.hydrated = true
		return
	default:
		s.markDegraded(ctx, DegradedReadFailed, err)
		return
	}
	s.hydrated = true

	stored, err := decodeLines(payload)
	if err != nil {
		s.markDegraded(ctx, DegradedCorrupted, err)
		return
	}
	pending := s.cart.Lines()
	for _, line := range pending {
		_ = stored.AddToCart(line.Product, line.Quantity, line.Flavor)
	}
	s.cart = stored
	if s.degraded == DegradedReadFailed {
		s.degraded = ""
	}
	if len(pending) > 0 {
		s.persist(ctx)
	}
}

func (s *Store) persist(ctx context.Context) {
	payload, err := encodeLines(s.cart.Lines())
	if err == nil {
		err = s.storage.Save(ctx, s.key, payload)
	}
	if err != nil {
		s.markDegraded(ctx, DegradedWriteFailed, err)
		return
	}
	s.degraded = ""
}

func (s *Store) markDegraded(ctx context.Context, reason DegradedReason, err error) {
	s.degraded = reason
	s.metrics.RecordCartDegraded(ctx, string(reason))
	logger.For(ctx, s.logger).Warn("cart storage degraded",
		zap.String("reason", string(reason)),
		zap.Error(err),
	)
}

func flavorID(f *cart.FlavorSnapshot) *uuid.UUID {
	if f == nil {
		return nil
	}
	return &f.ID
}

func (s *Store) touch(now time.Time) {
	s.lastUsed.Store(now.UnixNano())
}

func (s *Store) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastUsed.Load()))
}
