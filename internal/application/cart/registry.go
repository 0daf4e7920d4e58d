package cart

import (
	"context"
	"sync"
	"time"

	"github.com/storefront/backend/internal/domain/cart"
	"go.uber.org/zap"
)

// RegistryConfig configures the live store registry
type RegistryConfig struct {
	Namespace     string
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

// Registry keeps one live Store per session. Stores idle for longer than
// IdleTTL are dropped by a background sweep and rehydrate from storage on
// their next use.
type Registry struct {
	mu     sync.Mutex
	stores map[string]*Store

	storage cart.Storage
	cfg     RegistryConfig
	logger  *zap.Logger
	metrics Metrics
	now     func() time.Time

	stopChan  chan struct{}
	wg        sync.WaitGroup
	startOnce sync.Once
	closeOnce sync.Once
}

// NewRegistry creates a registry over storage
func NewRegistry(storage cart.Storage, cfg RegistryConfig, log *zap.Logger, metrics Metrics) *Registry {
	if cfg.Namespace == "" {
		cfg.Namespace = "cart"
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 30 * time.Minute
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		stores:   make(map[string]*Store),
		storage:  storage,
		cfg:      cfg,
		logger:   log,
		metrics:  metrics,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
}

// Store returns the live store of a session, creating it if needed
func (r *Registry) Store(sessionID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.stores[sessionID]
	if !ok {
		s = NewStore(cart.StorageKey(r.cfg.Namespace, sessionID), r.storage, r.logger, r.metrics)
		r.stores[sessionID] = s
	}
	s.touch(r.now())
	return s
}

// Sweep drops stores idle for longer than IdleTTL and returns how many
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	evicted := 0
	for id, s := range r.stores {
		if s.idleSince(now) > r.cfg.IdleTTL {
			delete(r.stores, id)
			evicted++
		}
	}
	return evicted
}

// Len returns the number of live stores
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

// Start runs the background sweep until Stop is called
func (r *Registry) Start() {
	r.startOnce.Do(func() {
		r.wg.Add(1)
		go r.sweepLoop()
	})
}

// Stop stops the background sweep and waits for it to exit
func (r *Registry) Stop(ctx context.Context) error {
	r.closeOnce.Do(func() {
		close(r.stopChan)
	})

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Registry) sweepLoop() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.Debug("evicted idle carts", zap.Int("count", n))
			}
		case <-r.stopChan:
			return
		}
	}
}
