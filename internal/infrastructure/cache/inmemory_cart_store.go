package cache

import (
	"context"
	"sync"
	"time"

	"github.com/secureshop/bff/internal/domain/shared"
	"github.com/secureshop/bff/internal/domain/shop"
)

// InMemoryCartStore implements shop.CartStore with a mutex-protected map.
// Suitable for single-instance deployments and tests; carts expire after
// the configured TTL on access.
type InMemoryCartStore struct {
	mu    sync.RWMutex
	carts map[string]*memoryCartEntry
	ttl   time.Duration
}

type memoryCartEntry struct {
	cart      *shop.Cart
	expiresAt time.Time
}

// NewInMemoryCartStore creates an in-memory cart store
func NewInMemoryCartStore(ttl time.Duration) *InMemoryCartStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &InMemoryCartStore{
		carts: make(map[string]*memoryCartEntry),
		ttl:   ttl,
	}
}

// Get returns the cart for a session, or shared.ErrNotFound
func (s *InMemoryCartStore) Get(ctx context.Context, sessionID string) (*shop.Cart, error) {
	s.mu.RLock()
	entry, ok := s.carts[sessionID]
	s.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, shared.ErrNotFound
	}

	// Copy so callers cannot mutate the stored cart in place
	copied := *entry.cart
	copied.Items = append([]shop.CartItem(nil), entry.cart.Items...)
	return &copied, nil
}

// Save persists the cart and refreshes its expiry
func (s *InMemoryCartStore) Save(ctx context.Context, cart *shop.Cart) error {
	copied := *cart
	copied.Items = append([]shop.CartItem(nil), cart.Items...)

	s.mu.Lock()
	s.carts[cart.SessionID] = &memoryCartEntry{
		cart:      &copied,
		expiresAt: time.Now().Add(s.ttl),
	}
	s.mu.Unlock()
	return nil
}

// Delete removes the cart for a session
func (s *InMemoryCartStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.carts, sessionID)
	s.mu.Unlock()
	return nil
}

// Ensure InMemoryCartStore implements CartStore
var _ shop.CartStore = (*InMemoryCartStore)(nil)
