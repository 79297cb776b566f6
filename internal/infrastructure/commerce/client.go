package commerce

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/secureshop/bff/internal/domain/shop"
)

// maxResponseSize is the maximum allowed response size from the backend (10MB)
const maxResponseSize = 10 * 1024 * 1024

// ErrConfigMissingBaseURL indicates the client was built without a backend URL
var ErrConfigMissingBaseURL = errors.New("commerce: base URL is required")

// Config holds commerce backend client configuration
type Config struct {
	// BaseURL is the root of the commerce REST API, e.g. https://api.secureshop.example
	BaseURL string
	// TimeoutSeconds bounds each request; defaults to 10
	TimeoutSeconds int
}

// Validate checks required fields and applies defaults
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return ErrConfigMissingBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
	return nil
}

// Client is the typed HTTP client for the commerce REST backend. All
// storefront data flows through it; it owns status-code classification and
// JSON decoding so callers only ever see domain values and sentinel errors.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient creates a commerce backend client with the given configuration
func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// ListProducts fetches one page of the product listing
func (c *Client) ListProducts(ctx context.Context, query ProductQuery) (shop.Page[shop.ProductSummary], error) {
	var payload productListResponse
	if err := c.getJSON(ctx, "/products", query.Values(), &payload); err != nil {
		return shop.EmptyPage[shop.ProductSummary](), err
	}

	items := make([]shop.ProductSummary, 0, len(payload.Content))
	for _, p := range payload.Content {
		items = append(items, p.toDomain())
	}
	return shop.Page[shop.ProductSummary]{
		Items:         items,
		TotalPages:    payload.Page.TotalPages,
		TotalElements: payload.Page.TotalElements,
	}, nil
}

// ListCategories fetches the active category catalog
func (c *Client) ListCategories(ctx context.Context) ([]shop.CategorySummary, error) {
	var payload []categoryPayload
	if err := c.getJSON(ctx, "/categories/active", nil, &payload); err != nil {
		return nil, err
	}

	categories := make([]shop.CategorySummary, 0, len(payload))
	for _, cat := range payload {
		categories = append(categories, shop.CategorySummary{ID: cat.ID, Name: cat.Name})
	}
	return categories, nil
}

// ListBrands fetches one page of the brand catalog
func (c *Client) ListBrands(ctx context.Context, page, size int, sort string) (shop.Page[shop.Brand], error) {
	values := url.Values{}
	values.Set("page", strconv.Itoa(page))
	values.Set("size", strconv.Itoa(size))
	if sort != "" {
		values.Set("sort", sort)
	}

	var payload brandListResponse
	if err := c.getJSON(ctx, "/brands", values, &payload); err != nil {
		return shop.EmptyPage[shop.Brand](), err
	}

	brands := make([]shop.Brand, 0, len(payload.Content))
	for _, b := range payload.Content {
		brands = append(brands, shop.Brand{ID: b.ID, Name: b.Name})
	}
	return shop.Page[shop.Brand]{
		Items:         brands,
		TotalPages:    payload.Page.TotalPages,
		TotalElements: payload.Page.TotalElements,
	}, nil
}

// GetOrder fetches a single order by id
func (c *Client) GetOrder(ctx context.Context, orderID string) (*shop.OrderDetail, error) {
	var payload orderPayload
	if err := c.getJSON(ctx, "/orders/"+url.PathEscape(orderID), nil, &payload); err != nil {
		return nil, err
	}
	return payload.toDetail(), nil
}

// ListOrders fetches one page of the caller's order history
func (c *Client) ListOrders(ctx context.Context, page, size int) (shop.Page[shop.OrderSummary], error) {
	values := url.Values{}
	values.Set("page", strconv.Itoa(page))
	values.Set("size", strconv.Itoa(size))

	var payload orderListResponse
	if err := c.getJSON(ctx, "/orders", values, &payload); err != nil {
		return shop.EmptyPage[shop.OrderSummary](), err
	}

	orders := make([]shop.OrderSummary, 0, len(payload.Content))
	for _, o := range payload.Content {
		orders = append(orders, o.toSummary())
	}
	return shop.Page[shop.OrderSummary]{
		Items:         orders,
		TotalPages:    payload.Page.TotalPages,
		TotalElements: payload.Page.TotalElements,
	}, nil
}

// ConfirmationStatus asks the backend whether an order has been confirmed
func (c *Client) ConfirmationStatus(ctx context.Context, orderID string) (bool, error) {
	var payload confirmationStatusResponse
	if err := c.getJSON(ctx, "/orders/"+url.PathEscape(orderID)+"/confirmation-status", nil, &payload); err != nil {
		return false, err
	}
	return payload.IsConfirmed, nil
}

// ConfirmOrder marks an order confirmed on the backend
func (c *Client) ConfirmOrder(ctx context.Context, orderID string) error {
	_, err := c.do(ctx, http.MethodPatch, "/orders/confirm/"+url.PathEscape(orderID), nil)
	return err
}

// CancelOrder cancels an order on the backend
func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	_, err := c.do(ctx, http.MethodPatch, "/orders/cancel/"+url.PathEscape(orderID), nil)
	return err
}

// ---------------------------------------------------------------------------
// Internal Helpers
// ---------------------------------------------------------------------------

// getJSON performs a GET and decodes the JSON body into out
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.do(ctx, http.MethodGet, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// do performs an HTTP request and classifies failures into sentinel errors.
// Context cancellation is surfaced as the context's own error so callers can
// tell a superseded request from a backend failure.
func (c *Client) do(ctx context.Context, method, path string, query url.Values) ([]byte, error) {
	endpoint := c.config.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("commerce: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("commerce: failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: HTTP %d", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: HTTP %d", ErrRequestFailed, resp.StatusCode)
	}

	return body, nil
}
