package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/secureshop/bff/internal/application/cart"
	"github.com/secureshop/bff/internal/domain/shop"
	"github.com/secureshop/bff/internal/interfaces/http/dto"
)

// CartHandler exposes the per-session shopping cart. The session id travels
// in the session header on every request.
type CartHandler struct {
	BaseHandler
	carts  *cart.Service
	logger *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(carts *cart.Service, logger *zap.Logger) *CartHandler {
	return &CartHandler{carts: carts, logger: logger}
}

// RegisterRoutes registers cart routes
func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	carts := rg.Group("/cart")
	{
		carts.GET("", h.GetCart)
		carts.POST("/items", h.AddItem)
		carts.PATCH("/items/:productId", h.UpdateQuantity)
		carts.DELETE("/items/:productId", h.RemoveItem)
		carts.DELETE("", h.ClearCart)
	}
}

// AddItemRequest adds a product line to the cart
type AddItemRequest struct {
	ProductID   int64           `json:"product_id" binding:"required,min=1"`
	ProductName string          `json:"product_name" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required,gt=0"`
	Quantity    int             `json:"quantity" binding:"required,min=1"`
}

// UpdateQuantityRequest sets the quantity of an existing line
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// CartResponse is the cart with derived totals attached
type CartResponse struct {
	*shop.Cart
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
}

// GetCart returns the session's cart
func (h *CartHandler) GetCart(c *gin.Context) {
	sessionID, ok := getSessionID(c)
	if !ok {
		h.MissingSession(c)
		return
	}

	crt, err := h.carts.Get(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toCartResponse(crt))
}

// AddItem adds a product line to the session's cart
func (h *CartHandler) AddItem(c *gin.Context) {
	sessionID, ok := getSessionID(c)
	if !ok {
		h.MissingSession(c)
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid cart item payload: "+err.Error())
		return
	}

	crt, err := h.carts.AddItem(c.Request.Context(), sessionID, shop.CartItem{
		ProductID:   req.ProductID,
		ProductName: req.ProductName,
		UnitPrice:   req.UnitPrice,
		Quantity:    req.Quantity,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toCartResponse(crt))
}

// UpdateQuantity sets the quantity of an existing cart line
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	sessionID, ok := getSessionID(c)
	if !ok {
		h.MissingSession(c)
		return
	}

	productID, ok := h.productID(c)
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid quantity payload")
		return
	}

	crt, err := h.carts.UpdateQuantity(c.Request.Context(), sessionID, productID, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toCartResponse(crt))
}

// RemoveItem deletes a line from the session's cart
func (h *CartHandler) RemoveItem(c *gin.Context) {
	sessionID, ok := getSessionID(c)
	if !ok {
		h.MissingSession(c)
		return
	}

	productID, ok := h.productID(c)
	if !ok {
		return
	}

	crt, err := h.carts.RemoveItem(c.Request.Context(), sessionID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toCartResponse(crt))
}

// ClearCart empties the session's cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	sessionID, ok := getSessionID(c)
	if !ok {
		h.MissingSession(c)
		return
	}

	if err := h.carts.Clear(c.Request.Context(), sessionID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *CartHandler) productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil || id < 1 {
		h.BadRequest(c, "Invalid product id")
		return 0, false
	}
	return id, true
}

func toCartResponse(crt *shop.Cart) CartResponse {
	return CartResponse{
		Cart:      crt,
		ItemCount: crt.ItemCount(),
		Total:     crt.Total(),
	}
}
