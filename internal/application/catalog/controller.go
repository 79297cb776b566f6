package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/secureshop/bff/internal/domain/shared"
	"github.com/secureshop/bff/internal/domain/shop"
	"github.com/secureshop/bff/internal/infrastructure/commerce"
)

// ProductLister is the slice of the commerce client the controller needs
type ProductLister interface {
	ListProducts(ctx context.Context, query commerce.ProductQuery) (shop.Page[shop.ProductSummary], error)
	ListCategories(ctx context.Context) ([]shop.CategorySummary, error)
	ListBrands(ctx context.Context, page, size int, sort string) (shop.Page[shop.Brand], error)
}

// ControllerConfig holds query controller settings
type ControllerConfig struct {
	// DebounceWindow delays keyword-driven fetches to coalesce keystrokes
	DebounceWindow time.Duration
	// DefaultPageSize is used when the session does not choose a page size
	DefaultPageSize int
	// BrandCatalogSize caps the brand list loaded at startup
	BrandCatalogSize int
	// SeedKeyword pre-fills the keyword facet, e.g. from a search box on a
	// landing page. Setting the keyword back to the seed fetches immediately.
	SeedKeyword string
}

func (c *ControllerConfig) applyDefaults() {
	if c.DebounceWindow <= 0 {
		c.DebounceWindow = 500 * time.Millisecond
	}
	if c.DefaultPageSize <= 0 {
		c.DefaultPageSize = shop.DefaultPageSize
	}
	if c.BrandCatalogSize <= 0 {
		c.BrandCatalogSize = 100
	}
}

// Snapshot is the published output of a controller: the latest successful
// page plus the loading flag and the state it was produced from
type Snapshot struct {
	Filters    shop.FilterState
	Result     shop.Page[shop.ProductSummary]
	Loading    bool
	Categories []shop.CategorySummary
	Brands     []shop.Brand
}

// Controller translates filter facets into at most one live product fetch
// and publishes the latest successful result. Facet changes supersede any
// scheduled or in-flight fetch; a superseded fetch never updates state, so a
// slow early response can never overwrite a newer one.
type Controller struct {
	mu sync.Mutex

	cfg      ControllerConfig
	products ProductLister
	logger   *zap.Logger

	filters    shop.FilterState
	tempMin    *decimal.Decimal
	tempMax    *decimal.Decimal
	categories []shop.CategorySummary
	brands     []shop.Brand

	result  shop.Page[shop.ProductSummary]
	loading bool

	// generation identifies the current fetch; results from older
	// generations are discarded on arrival
	generation uint64
	debounce   *time.Timer
	cancelFly  context.CancelFunc

	baseCtx    context.Context
	baseCancel context.CancelFunc
	ready      bool
	closed     bool
}

// NewController creates a query controller. Call Start before use.
func NewController(products ProductLister, cfg ControllerConfig, logger *zap.Logger) *Controller {
	cfg.applyDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		cfg:        cfg,
		products:   products,
		logger:     logger,
		filters:    shop.NewFilterState(cfg.SeedKeyword, cfg.DefaultPageSize),
		result:     shop.EmptyPage[shop.ProductSummary](),
		baseCtx:    ctx,
		baseCancel: cancel,
	}
}

// Start loads the category and brand catalogs and then issues the first
// product fetch. Products are deliberately not fetched before the catalogs
// have loaded so facets can never reference a catalog entry that is not
// there yet.
func (c *Controller) Start(ctx context.Context) error {
	categories, err := c.products.ListCategories(ctx)
	if err != nil {
		return err
	}
	brandPage, err := c.products.ListBrands(ctx, 0, c.cfg.BrandCatalogSize, "name,asc")
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return shared.ErrSessionNotFound
	}
	c.categories = categories
	c.brands = brandPage.Items
	c.ready = true
	c.scheduleLocked(0)
	return nil
}

// SetCategory sets the category facet; 0 means all categories
func (c *Controller) SetCategory(id int64) {
	c.setFacet(func() { c.filters.CategoryID = id })
}

// SetBrand sets the brand facet; 0 means all brands
func (c *Controller) SetBrand(id int64) {
	c.setFacet(func() { c.filters.BrandID = id })
}

// SetStockFilter sets the availability facet
func (c *Controller) SetStockFilter(filter shop.StockFilter) {
	c.setFacet(func() { c.filters.Stock = filter })
}

// SetSort sets the sort facet
func (c *Controller) SetSort(key shop.SortKey) {
	c.setFacet(func() { c.filters.Sort = key })
}

// SetPage moves to another page without resetting pagination
func (c *Controller) SetPage(page int) {
	if page < 0 {
		page = 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.filters.Page = page
	c.scheduleLocked(0)
}

// SetPageSize changes the page size and resets to the first page
func (c *Controller) SetPageSize(size int) {
	if size <= 0 {
		size = c.cfg.DefaultPageSize
	}
	c.setFacet(func() { c.filters.PageSize = size })
}

// SetKeyword updates the keyword facet. Values differing from the seed
// keyword are debounced so a typing burst produces a single request; setting
// the keyword back to the seed fetches immediately.
func (c *Controller) SetKeyword(keyword string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.filters.Keyword = keyword
	c.filters.Page = 0

	delay := time.Duration(0)
	if keyword != c.cfg.SeedKeyword {
		delay = c.cfg.DebounceWindow
	}
	c.scheduleLocked(delay)
}

// StagePriceRange stores a candidate price range without committing it
func (c *Controller) StagePriceRange(min, max *decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tempMin = min
	c.tempMax = max
}

// ApplyPriceRange validates the staged price range and commits it. An
// inverted range is rejected without touching committed facets.
func (c *Controller) ApplyPriceRange() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return shared.ErrSessionNotFound
	}
	if c.tempMin != nil && c.tempMax != nil && c.tempMin.GreaterThan(*c.tempMax) {
		return shared.ErrInvalidPriceRange
	}
	c.filters.MinPrice = c.tempMin
	c.filters.MaxPrice = c.tempMax
	c.filters.Page = 0
	c.scheduleLocked(0)
	return nil
}

// StagedPriceRange returns the currently staged values
func (c *Controller) StagedPriceRange() (min, max *decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tempMin, c.tempMax
}

// Snapshot returns the current published state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Filters:    c.filters,
		Result:     c.result,
		Loading:    c.loading,
		Categories: c.categories,
		Brands:     c.brands,
	}
}

// Close tears the controller down: pending timers are stopped, the in-flight
// request is cancelled, and nothing is published afterwards
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.debounce != nil {
		c.debounce.Stop()
		c.debounce = nil
	}
	if c.cancelFly != nil {
		c.cancelFly()
		c.cancelFly = nil
	}
	c.baseCancel()
}

// setFacet applies a facet mutation, resets pagination, and fetches
// immediately. Used for every facet except keyword and page.
func (c *Controller) setFacet(mutate func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	mutate()
	c.filters.Page = 0
	c.scheduleLocked(0)
}

// scheduleLocked supersedes any pending or in-flight fetch and schedules a
// new one after delay. Callers must hold c.mu.
func (c *Controller) scheduleLocked(delay time.Duration) {
	if !c.ready || c.closed {
		return
	}
	if c.debounce != nil {
		c.debounce.Stop()
		c.debounce = nil
	}
	if c.cancelFly != nil {
		c.cancelFly()
		c.cancelFly = nil
	}

	c.generation++
	gen := c.generation
	c.loading = true

	if delay <= 0 {
		c.launchLocked(gen)
		return
	}
	c.debounce = time.AfterFunc(delay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed || gen != c.generation {
			return
		}
		c.launchLocked(gen)
	})
}

// launchLocked fires the fetch for the given generation. Callers must hold c.mu.
func (c *Controller) launchLocked(gen uint64) {
	ctx, cancel := context.WithCancel(c.baseCtx)
	c.cancelFly = cancel
	query := c.queryLocked()
	go c.fetch(ctx, cancel, gen, query)
}

// queryLocked builds the outgoing product query from committed facets
func (c *Controller) queryLocked() commerce.ProductQuery {
	return commerce.ProductQuery{
		CategoryID: c.filters.CategoryID,
		BrandID:    c.filters.BrandID,
		Keyword:    c.filters.TrimmedKeyword(),
		MinPrice:   c.filters.MinPrice,
		MaxPrice:   c.filters.MaxPrice,
		InStock:    c.filters.Stock.InStock(),
		Page:       c.filters.Page,
		Size:       c.filters.PageSize,
		Sort:       c.filters.Sort.BackendSort(),
	}
}

// fetch performs the network call and publishes the result if this
// generation is still current
func (c *Controller) fetch(ctx context.Context, cancel context.CancelFunc, gen uint64, query commerce.ProductQuery) {
	defer cancel()
	page, err := c.products.ListProducts(ctx, query)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.generation {
		// Superseded; a newer fetch owns the loading flag
		return
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return
		}
		c.logger.Warn("product fetch failed, degrading to empty result",
			zap.Error(err),
			zap.Int("page", query.Page),
		)
		page = shop.EmptyPage[shop.ProductSummary]()
	}
	c.result = page
	c.loading = false
	c.cancelFly = nil
}
