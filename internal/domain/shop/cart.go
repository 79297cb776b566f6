package shop

import (
	"context"
	"time"

	"github.com/secureshop/bff/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CartItem is a single cart line
type CartItem struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

// LineTotal returns unit price times quantity
func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart holds the items a session intends to order. It is owned by exactly
// one browse session and mutated only through the cart service.
type Cart struct {
	SessionID string     `json:"session_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewCart creates an empty cart for a session
func NewCart(sessionID string) *Cart {
	return &Cart{
		SessionID: sessionID,
		Items:     []CartItem{},
		UpdatedAt: time.Now(),
	}
}

// AddItem adds quantity of a product, merging with an existing line
func (c *Cart) AddItem(item CartItem) error {
	if item.Quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity += item.Quantity
			c.touch()
			return nil
		}
	}
	c.Items = append(c.Items, item)
	c.touch()
	return nil
}

// UpdateQuantity sets the quantity of an existing line
func (c *Cart) UpdateQuantity(productID int64, quantity int) error {
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
			c.touch()
			return nil
		}
	}
	return shared.ErrNotFound
}

// RemoveItem deletes a line from the cart
func (c *Cart) RemoveItem(productID int64) error {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.touch()
			return nil
		}
	}
	return shared.ErrNotFound
}

// Clear removes all lines
func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.touch()
}

// ItemCount returns the total quantity across all lines
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Total returns the sum of all line totals
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now()
}

// CartStore persists carts per session
type CartStore interface {
	// Get returns the cart for a session, or shared.ErrNotFound
	Get(ctx context.Context, sessionID string) (*Cart, error)
	// Save persists the cart
	Save(ctx context.Context, cart *Cart) error
	// Delete removes the cart for a session
	Delete(ctx context.Context, sessionID string) error
}
