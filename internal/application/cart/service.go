package cart

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/secureshop/bff/internal/domain/shared"
	"github.com/secureshop/bff/internal/domain/shop"
)

// Service mediates cart mutations for a session. Every successful mutation
// persists the cart and broadcasts a cart event on the bus.
type Service struct {
	store  shop.CartStore
	bus    shared.EventPublisher
	logger *zap.Logger
}

// NewService creates a cart service
func NewService(store shop.CartStore, bus shared.EventPublisher, logger *zap.Logger) *Service {
	return &Service{store: store, bus: bus, logger: logger}
}

// Get returns the session's cart, creating an empty one on first access
func (s *Service) Get(ctx context.Context, sessionID string) (*shop.Cart, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return shop.NewCart(sessionID), nil
}

// AddItem adds a product line to the session's cart
func (s *Service) AddItem(ctx context.Context, sessionID string, item shop.CartItem) (*shop.Cart, error) {
	return s.mutate(ctx, sessionID, func(cart *shop.Cart) error {
		return cart.AddItem(item)
	})
}

// UpdateQuantity changes the quantity of an existing line
func (s *Service) UpdateQuantity(ctx context.Context, sessionID string, productID int64, quantity int) (*shop.Cart, error) {
	return s.mutate(ctx, sessionID, func(cart *shop.Cart) error {
		return cart.UpdateQuantity(productID, quantity)
	})
}

// RemoveItem deletes a line from the session's cart
func (s *Service) RemoveItem(ctx context.Context, sessionID string, productID int64) (*shop.Cart, error) {
	return s.mutate(ctx, sessionID, func(cart *shop.Cart) error {
		return cart.RemoveItem(productID)
	})
}

// Clear empties the session's cart and broadcasts a cleared event
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	s.publish(ctx, shop.NewCartClearedEvent(sessionID))
	return nil
}

func (s *Service) mutate(ctx context.Context, sessionID string, fn func(*shop.Cart) error) (*shop.Cart, error) {
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(cart); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, cart); err != nil {
		return nil, err
	}
	s.publish(ctx, shop.NewCartUpdatedEvent(sessionID, cart.ItemCount(), cart.Total()))
	return cart, nil
}

// Event delivery is best effort; a failed broadcast never fails the mutation
func (s *Service) publish(ctx context.Context, event shared.DomainEvent) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		s.logger.Warn("cart event publish failed",
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
	}
}
