package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/secureshop/bff/internal/application/catalog"
	"github.com/secureshop/bff/internal/domain/shop"
	"github.com/secureshop/bff/internal/interfaces/http/dto"
)

// BrowseHandler exposes the per-session product listing controller
type BrowseHandler struct {
	BaseHandler
	sessions *catalog.SessionManager
	logger   *zap.Logger
}

// NewBrowseHandler creates a new BrowseHandler
func NewBrowseHandler(sessions *catalog.SessionManager, logger *zap.Logger) *BrowseHandler {
	return &BrowseHandler{sessions: sessions, logger: logger}
}

// RegisterRoutes registers browse session routes
func (h *BrowseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	browse := rg.Group("/browse")
	{
		browse.POST("", h.CreateSession)
		browse.GET("/:sid", h.GetSnapshot)
		browse.PATCH("/:sid/filters", h.UpdateFilters)
		browse.POST("/:sid/price-range", h.ApplyPriceRange)
		browse.DELETE("/:sid", h.RemoveSession)
	}
}

// CreateSessionRequest starts a browse session, optionally seeded with a
// keyword carried over from a landing page search box
type CreateSessionRequest struct {
	Keyword string `json:"keyword"`
}

// CreateSessionResponse carries the new session id
type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
}

// FilterStateResponse is the wire form of the committed filter facets
type FilterStateResponse struct {
	CategoryID int64            `json:"category_id"`
	BrandID    int64            `json:"brand_id"`
	Keyword    string           `json:"keyword"`
	MinPrice   *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice   *decimal.Decimal `json:"max_price,omitempty"`
	Stock      string           `json:"stock"`
	Sort       string           `json:"sort"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
}

// SnapshotResponse is the full browse view: latest results, loading flag,
// committed filters and the immutable catalogs
type SnapshotResponse struct {
	Filters       FilterStateResponse    `json:"filters"`
	Products      []shop.ProductSummary  `json:"products"`
	TotalPages    int                    `json:"total_pages"`
	TotalElements int64                  `json:"total_elements"`
	Loading       bool                   `json:"loading"`
	Categories    []shop.CategorySummary `json:"categories"`
	Brands        []shop.Brand           `json:"brands"`
}

// UpdateFiltersRequest sets any subset of facets. Absent fields are left
// untouched.
type UpdateFiltersRequest struct {
	CategoryID *int64  `json:"category_id" binding:"omitempty,min=0"`
	BrandID    *int64  `json:"brand_id" binding:"omitempty,min=0"`
	Keyword    *string `json:"keyword"`
	Stock      *string `json:"stock" binding:"omitempty,oneof=ALL IN_STOCK OUT_OF_STOCK"`
	Sort       *string `json:"sort" binding:"omitempty,oneof=NAME PRICE_LOW PRICE_HIGH RATING"`
	Page       *int    `json:"page" binding:"omitempty,min=0"`
	PageSize   *int    `json:"page_size" binding:"omitempty,min=1,max=100"`
}

// PriceRangeRequest stages and applies a price range in one call
type PriceRangeRequest struct {
	MinPrice *decimal.Decimal `json:"min_price"`
	MaxPrice *decimal.Decimal `json:"max_price"`
}

// CreateSession starts a browse session and returns its id
func (h *BrowseHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Invalid request body")
			return
		}
	}

	id, _, err := h.sessions.Create(c.Request.Context(), req.Keyword)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, CreateSessionResponse{SessionID: id})
}

// GetSnapshot returns the current browse state for a session
func (h *BrowseHandler) GetSnapshot(c *gin.Context) {
	ctrl, err := h.sessions.Get(c.Param("sid"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSnapshotResponse(ctrl.Snapshot()))
}

// UpdateFilters applies facet changes to a session
func (h *BrowseHandler) UpdateFilters(c *gin.Context) {
	ctrl, err := h.sessions.Get(c.Param("sid"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req UpdateFiltersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid filter payload: "+err.Error())
		return
	}

	if req.CategoryID != nil {
		ctrl.SetCategory(*req.CategoryID)
	}
	if req.BrandID != nil {
		ctrl.SetBrand(*req.BrandID)
	}
	if req.Stock != nil {
		ctrl.SetStockFilter(shop.ParseStockFilter(*req.Stock))
	}
	if req.Sort != nil {
		ctrl.SetSort(shop.ParseSortKey(*req.Sort))
	}
	if req.PageSize != nil {
		ctrl.SetPageSize(*req.PageSize)
	}
	if req.Page != nil {
		ctrl.SetPage(*req.Page)
	}
	if req.Keyword != nil {
		ctrl.SetKeyword(*req.Keyword)
	}

	h.Success(c, toSnapshotResponse(ctrl.Snapshot()))
}

// ApplyPriceRange stages a price range and commits it
func (h *BrowseHandler) ApplyPriceRange(c *gin.Context) {
	ctrl, err := h.sessions.Get(c.Param("sid"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req PriceRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid price range payload")
		return
	}

	ctrl.StagePriceRange(req.MinPrice, req.MaxPrice)
	if err := ctrl.ApplyPriceRange(); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toSnapshotResponse(ctrl.Snapshot()))
}

// RemoveSession tears a browse session down
func (h *BrowseHandler) RemoveSession(c *gin.Context) {
	if err := h.sessions.Remove(c.Param("sid")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func toSnapshotResponse(snap catalog.Snapshot) SnapshotResponse {
	return SnapshotResponse{
		Filters: FilterStateResponse{
			CategoryID: snap.Filters.CategoryID,
			BrandID:    snap.Filters.BrandID,
			Keyword:    snap.Filters.Keyword,
			MinPrice:   snap.Filters.MinPrice,
			MaxPrice:   snap.Filters.MaxPrice,
			Stock:      string(snap.Filters.Stock),
			Sort:       string(snap.Filters.Sort),
			Page:       snap.Filters.Page,
			PageSize:   snap.Filters.PageSize,
		},
		Products:      snap.Result.Items,
		TotalPages:    snap.Result.TotalPages,
		TotalElements: snap.Result.TotalElements,
		Loading:       snap.Loading,
		Categories:    snap.Categories,
		Brands:        snap.Brands,
	}
}
