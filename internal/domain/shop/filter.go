package shop

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultPageSize is the listing page size used when none is configured
const DefaultPageSize = 12

// StockFilter narrows a product query by availability
type StockFilter string

const (
	StockAll        StockFilter = "ALL"
	StockInStock    StockFilter = "IN_STOCK"
	StockOutOfStock StockFilter = "OUT_OF_STOCK"
)

// ParseStockFilter converts a string to a StockFilter, defaulting to StockAll
func ParseStockFilter(s string) StockFilter {
	switch StockFilter(strings.ToUpper(strings.TrimSpace(s))) {
	case StockInStock:
		return StockInStock
	case StockOutOfStock:
		return StockOutOfStock
	default:
		return StockAll
	}
}

// InStock returns the availability flag the backend expects, or nil when
// the filter is not narrowing
func (f StockFilter) InStock() *bool {
	switch f {
	case StockInStock:
		v := true
		return &v
	case StockOutOfStock:
		v := false
		return &v
	default:
		return nil
	}
}

// SortKey identifies a product listing sort order
type SortKey string

const (
	SortName      SortKey = "NAME"
	SortPriceLow  SortKey = "PRICE_LOW"
	SortPriceHigh SortKey = "PRICE_HIGH"
	SortRating    SortKey = "RATING"
)

// ParseSortKey converts a string to a SortKey, defaulting to SortName
func ParseSortKey(s string) SortKey {
	switch SortKey(strings.ToUpper(strings.TrimSpace(s))) {
	case SortPriceLow:
		return SortPriceLow
	case SortPriceHigh:
		return SortPriceHigh
	case SortRating:
		return SortRating
	default:
		return SortName
	}
}

// BackendSort returns the sort expression the commerce backend understands
func (k SortKey) BackendSort() string {
	switch k {
	case SortPriceLow:
		return "price,asc"
	case SortPriceHigh:
		return "price,desc"
	case SortRating:
		return "rating,desc"
	default:
		return "name,asc"
	}
}

// FilterState holds the committed facets of a product query.
// A zero CategoryID or BrandID means "all" and is omitted from requests.
type FilterState struct {
	CategoryID int64
	BrandID    int64
	Keyword    string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Stock      StockFilter
	Sort       SortKey
	Page       int
	PageSize   int
}

// NewFilterState returns a FilterState with defaults applied
func NewFilterState(seedKeyword string, pageSize int) FilterState {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return FilterState{
		Keyword:  seedKeyword,
		Stock:    StockAll,
		Sort:     SortName,
		PageSize: pageSize,
	}
}

// TrimmedKeyword returns the keyword facet ready for the wire; an empty
// result means the facet is omitted entirely
func (f FilterState) TrimmedKeyword() string {
	return strings.TrimSpace(f.Keyword)
}
