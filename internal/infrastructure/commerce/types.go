package commerce

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/secureshop/bff/internal/domain/shop"
	"github.com/shopspring/decimal"
)

// ProductQuery carries the facets of a product listing request.
// Zero CategoryID/BrandID are sentinels for "all" and are omitted from the
// outgoing query, as is a keyword that is empty after trimming.
type ProductQuery struct {
	CategoryID int64
	BrandID    int64
	Keyword    string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	InStock    *bool
	Page       int
	Size       int
	Sort       string
}

// Values encodes the query for the /products endpoint. Only active products
// are ever requested.
func (q ProductQuery) Values() url.Values {
	v := url.Values{}
	v.Set("active", "true")
	if q.CategoryID > 0 {
		v.Set("categoryId", strconv.FormatInt(q.CategoryID, 10))
	}
	if q.BrandID > 0 {
		v.Set("brandId", strconv.FormatInt(q.BrandID, 10))
	}
	if keyword := strings.TrimSpace(q.Keyword); keyword != "" {
		v.Set("keyword", keyword)
	}
	if q.MinPrice != nil {
		v.Set("minPrice", q.MinPrice.String())
	}
	if q.MaxPrice != nil {
		v.Set("maxPrice", q.MaxPrice.String())
	}
	if q.InStock != nil {
		v.Set("inStock", strconv.FormatBool(*q.InStock))
	}
	v.Set("page", strconv.Itoa(q.Page))
	size := q.Size
	if size <= 0 {
		size = shop.DefaultPageSize
	}
	v.Set("size", strconv.Itoa(size))
	sort := q.Sort
	if sort == "" {
		sort = shop.SortName.BackendSort()
	}
	v.Set("sort", sort)
	return v
}

// pageInfo is the pagination envelope the backend attaches to listings
type pageInfo struct {
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
}

type productPayload struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	BrandName   string          `json:"brandName"`
	Category    string          `json:"categoryName"`
	Price       decimal.Decimal `json:"price"`
	Rating      float64         `json:"rating"`
	InStock     bool            `json:"inStock"`
	ImageURL    string          `json:"imageUrl"`
}

func (p productPayload) toDomain() shop.ProductSummary {
	return shop.ProductSummary{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		BrandName:   p.BrandName,
		Category:    p.Category,
		Price:       p.Price,
		Rating:      p.Rating,
		InStock:     p.InStock,
		ImageURL:    p.ImageURL,
	}
}

type productListResponse struct {
	Content []productPayload `json:"content"`
	Page    pageInfo         `json:"page"`
}

type categoryPayload struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type brandPayload struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type brandListResponse struct {
	Content []brandPayload `json:"content"`
	Page    pageInfo       `json:"page"`
}

type orderItemPayload struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
}

type orderPayload struct {
	ID              string             `json:"id"`
	Status          string             `json:"status"`
	Items           []orderItemPayload `json:"items"`
	Total           decimal.Decimal    `json:"total"`
	PlacedAt        time.Time          `json:"placedAt"`
	ShippingAddress string             `json:"shippingAddress"`
}

func (o orderPayload) toDetail() *shop.OrderDetail {
	items := make([]shop.OrderItem, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, shop.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}
	return &shop.OrderDetail{
		ID:              o.ID,
		Status:          shop.OrderStatus(o.Status),
		Items:           items,
		Total:           o.Total,
		PlacedAt:        o.PlacedAt,
		ShippingAddress: o.ShippingAddress,
	}
}

func (o orderPayload) toSummary() shop.OrderSummary {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return shop.OrderSummary{
		ID:        o.ID,
		Status:    shop.OrderStatus(o.Status),
		Total:     o.Total,
		PlacedAt:  o.PlacedAt,
		ItemCount: count,
	}
}

type orderListResponse struct {
	Content []orderPayload `json:"content"`
	Page    pageInfo       `json:"page"`
}

type confirmationStatusResponse struct {
	IsConfirmed bool `json:"isConfirmed"`
}
