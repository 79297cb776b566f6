package order

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/secureshop/bff/internal/domain/shared"
	"github.com/secureshop/bff/internal/domain/shop"
	"github.com/secureshop/bff/internal/infrastructure/commerce"
)

// API is the slice of the commerce client the order service needs
type API interface {
	GetOrder(ctx context.Context, orderID string) (*shop.OrderDetail, error)
	ListOrders(ctx context.Context, page, size int) (shop.Page[shop.OrderSummary], error)
	ConfirmOrder(ctx context.Context, orderID string) error
	CancelOrder(ctx context.Context, orderID string) error
}

// Service handles order reads and lifecycle actions. Unlike listing fetches,
// order failures propagate as domain errors so the view can offer an
// explicit retry.
type Service struct {
	api    API
	logger *zap.Logger
}

// NewService creates an order service
func NewService(api API, logger *zap.Logger) *Service {
	return &Service{api: api, logger: logger}
}

// Get fetches a single order
func (s *Service) Get(ctx context.Context, orderID string) (*shop.OrderDetail, error) {
	detail, err := s.api.GetOrder(ctx, orderID)
	if err != nil {
		return nil, s.translate(ctx, "get order", orderID, err)
	}
	return detail, nil
}

// List fetches one page of order history
func (s *Service) List(ctx context.Context, page, size int) (shop.Page[shop.OrderSummary], error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = shop.DefaultPageSize
	}
	result, err := s.api.ListOrders(ctx, page, size)
	if err != nil {
		return shop.EmptyPage[shop.OrderSummary](), s.translate(ctx, "list orders", "", err)
	}
	return result, nil
}

// Confirm marks an order confirmed and returns the refreshed order
// (fire-and-refresh; confirmation is not polled here)
func (s *Service) Confirm(ctx context.Context, orderID string) (*shop.OrderDetail, error) {
	if err := s.api.ConfirmOrder(ctx, orderID); err != nil {
		return nil, s.translate(ctx, "confirm order", orderID, err)
	}
	return s.Get(ctx, orderID)
}

// Cancel cancels an order and returns the refreshed order
func (s *Service) Cancel(ctx context.Context, orderID string) (*shop.OrderDetail, error) {
	if err := s.api.CancelOrder(ctx, orderID); err != nil {
		return nil, s.translate(ctx, "cancel order", orderID, err)
	}
	return s.Get(ctx, orderID)
}

// translate maps transport errors to domain errors at the service boundary
func (s *Service) translate(ctx context.Context, op, orderID string, err error) error {
	switch {
	case errors.Is(err, commerce.ErrNotFound):
		return shared.ErrNotFound
	case errors.Is(err, commerce.ErrUnauthorized):
		return shared.ErrUnauthorized
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		s.logger.Error("order operation failed",
			zap.String("op", op),
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		return shared.ErrBackendUnavailable
	}
}
