package shop

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// OrderItem is a single line of an order
type OrderItem struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

// LineTotal returns unit price times quantity
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderSummary is an order listing row
type OrderSummary struct {
	ID        string          `json:"id"`
	Status    OrderStatus     `json:"status"`
	Total     decimal.Decimal `json:"total"`
	PlacedAt  time.Time       `json:"placed_at"`
	ItemCount int             `json:"item_count"`
}

// OrderDetail is a full order as served by the commerce backend
type OrderDetail struct {
	ID              string          `json:"id"`
	Status          OrderStatus     `json:"status"`
	Items           []OrderItem     `json:"items"`
	Total           decimal.Decimal `json:"total"`
	PlacedAt        time.Time       `json:"placed_at"`
	ShippingAddress string          `json:"shipping_address,omitempty"`
}
