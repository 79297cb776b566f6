package shop

import (
	"github.com/secureshop/bff/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Cart event types
const (
	EventTypeCartUpdated = "cart.updated"
	EventTypeCartCleared = "cart.cleared"
)

// CartUpdatedEvent is broadcast after any cart mutation so interested
// components (badge counters, mini-cart views) can refresh without polling
type CartUpdatedEvent struct {
	shared.BaseDomainEvent
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
}

// NewCartUpdatedEvent creates a cart updated event for a session
func NewCartUpdatedEvent(sessionID string, itemCount int, total decimal.Decimal) *CartUpdatedEvent {
	return &CartUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCartUpdated, "cart", sessionID),
		ItemCount:       itemCount,
		Total:           total,
	}
}

// CartClearedEvent is broadcast when a cart is emptied, typically after
// checkout completes
type CartClearedEvent struct {
	shared.BaseDomainEvent
}

// NewCartClearedEvent creates a cart cleared event for a session
func NewCartClearedEvent(sessionID string) *CartClearedEvent {
	return &CartClearedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCartCleared, "cart", sessionID),
	}
}
