package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/secureshop/bff/internal/application/order"
	"github.com/secureshop/bff/internal/domain/shop"
	"github.com/secureshop/bff/internal/interfaces/http/dto"
)

// OrderHandler exposes order history, order detail and the confirmation
// polling snapshot
type OrderHandler struct {
	BaseHandler
	orders  *order.Service
	pollers *order.PollerManager
	logger  *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders *order.Service, pollers *order.PollerManager, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, pollers: pollers, logger: logger}
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
		orders.PATCH("/confirm/:id", h.ConfirmOrder)
		orders.PATCH("/cancel/:id", h.CancelOrder)
		orders.GET("/:id/confirmation", h.ConfirmationStatus)
		orders.DELETE("/:id/confirmation", h.ReleaseConfirmation)
	}
}

// OrderSummaryResponse is an order history row with display badge attached
type OrderSummaryResponse struct {
	shop.OrderSummary
	Badge shop.Badge `json:"badge"`
}

// OrderDetailResponse is a full order with display badge attached
type OrderDetailResponse struct {
	shop.OrderDetail
	Badge shop.Badge `json:"badge"`
}

// ListOrders returns one page of order history
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid pagination parameters")
		return
	}

	page, err := h.orders.List(c.Request.Context(), req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	rows := make([]OrderSummaryResponse, 0, len(page.Items))
	for _, item := range page.Items {
		rows = append(rows, OrderSummaryResponse{
			OrderSummary: item,
			Badge:        shop.BadgeFor(item.Status),
		})
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = shop.DefaultPageSize
	}
	h.SuccessWithMeta(c, rows, page.TotalElements, req.Page, pageSize, page.TotalPages)
}

// GetOrder returns a single order
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, ok := h.orderID(c)
	if !ok {
		return
	}

	detail, err := h.orders.Get(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, OrderDetailResponse{OrderDetail: *detail, Badge: shop.BadgeFor(detail.Status)})
}

// ConfirmOrder confirms an order and returns the refreshed order
func (h *OrderHandler) ConfirmOrder(c *gin.Context) {
	orderID, ok := h.orderID(c)
	if !ok {
		return
	}

	detail, err := h.orders.Confirm(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, OrderDetailResponse{OrderDetail: *detail, Badge: shop.BadgeFor(detail.Status)})
}

// CancelOrder cancels an order and returns the refreshed order
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	orderID, ok := h.orderID(c)
	if !ok {
		return
	}

	detail, err := h.orders.Cancel(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, OrderDetailResponse{OrderDetail: *detail, Badge: shop.BadgeFor(detail.Status)})
}

// ConfirmationStatus returns the polling snapshot for an order, starting a
// poller on the first read
func (h *OrderHandler) ConfirmationStatus(c *gin.Context) {
	orderID, ok := h.orderID(c)
	if !ok {
		return
	}
	h.Success(c, h.pollers.Status(c.Request.Context(), orderID))
}

// ReleaseConfirmation stops the confirmation poller for an order, e.g. when
// the confirmation view is dismissed
func (h *OrderHandler) ReleaseConfirmation(c *gin.Context) {
	orderID, ok := h.orderID(c)
	if !ok {
		return
	}
	h.pollers.Release(orderID)
	h.NoContent(c)
}

func (h *OrderHandler) orderID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		h.BadRequest(c, "Invalid order id")
		return "", false
	}
	return id, true
}
