package shop

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortKey_BackendSort(t *testing.T) {
	tests := []struct {
		name string
		key  SortKey
		want string
	}{
		{name: "name ascending", key: SortName, want: "name,asc"},
		{name: "price low to high", key: SortPriceLow, want: "price,asc"},
		{name: "price high to low", key: SortPriceHigh, want: "price,desc"},
		{name: "rating descending", key: SortRating, want: "rating,desc"},
		{name: "unknown falls back to name", key: SortKey("BOGUS"), want: "name,asc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.key.BackendSort())
		})
	}
}

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, SortPriceLow, ParseSortKey("price_low"))
	assert.Equal(t, SortPriceHigh, ParseSortKey(" PRICE_HIGH "))
	assert.Equal(t, SortRating, ParseSortKey("RATING"))
	assert.Equal(t, SortName, ParseSortKey(""))
	assert.Equal(t, SortName, ParseSortKey("nonsense"))
}

func TestStockFilter_InStock(t *testing.T) {
	assert.Nil(t, StockAll.InStock())

	inStock := StockInStock.InStock()
	if assert.NotNil(t, inStock) {
		assert.True(t, *inStock)
	}

	outOfStock := StockOutOfStock.InStock()
	if assert.NotNil(t, outOfStock) {
		assert.False(t, *outOfStock)
	}
}

func TestParseStockFilter(t *testing.T) {
	assert.Equal(t, StockInStock, ParseStockFilter("in_stock"))
	assert.Equal(t, StockOutOfStock, ParseStockFilter("OUT_OF_STOCK"))
	assert.Equal(t, StockAll, ParseStockFilter(""))
	assert.Equal(t, StockAll, ParseStockFilter("whatever"))
}

func TestNewFilterState_Defaults(t *testing.T) {
	state := NewFilterState("camera", 0)

	assert.Equal(t, "camera", state.Keyword)
	assert.Equal(t, StockAll, state.Stock)
	assert.Equal(t, SortName, state.Sort)
	assert.Equal(t, 0, state.Page)
	assert.Equal(t, DefaultPageSize, state.PageSize)
	assert.Zero(t, state.CategoryID)
	assert.Zero(t, state.BrandID)
}

func TestFilterState_TrimmedKeyword(t *testing.T) {
	state := NewFilterState("  camera  ", DefaultPageSize)
	assert.Equal(t, "camera", state.TrimmedKeyword())

	state.Keyword = "   "
	assert.Empty(t, state.TrimmedKeyword())
}
