package shop

import "github.com/shopspring/decimal"

// ProductSummary is a product listing row as served by the commerce backend
type ProductSummary struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	BrandName   string          `json:"brand_name,omitempty"`
	Category    string          `json:"category,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Rating      float64         `json:"rating"`
	InStock     bool            `json:"in_stock"`
	ImageURL    string          `json:"image_url,omitempty"`
}

// CategorySummary is a filterable product category
type CategorySummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Brand is a filterable product brand
type Brand struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
