package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/secureshop/bff/internal/application/catalog"
	"github.com/secureshop/bff/internal/domain/shop"
	"github.com/secureshop/bff/internal/infrastructure/commerce"
	"github.com/secureshop/bff/internal/interfaces/http/router"
)

type stubLister struct {
	mu      sync.Mutex
	queries []commerce.ProductQuery
}

func (s *stubLister) ListProducts(ctx context.Context, q commerce.ProductQuery) (shop.Page[shop.ProductSummary], error) {
	s.mu.Lock()
	s.queries = append(s.queries, q)
	s.mu.Unlock()
	return shop.Page[shop.ProductSummary]{
		Items: []shop.ProductSummary{
			{ID: 1, Name: "Laptop", Price: decimal.NewFromInt(1200), Rating: 4.5, InStock: true},
		},
		TotalPages:    1,
		TotalElements: 1,
	}, nil
}

func (s *stubLister) ListCategories(ctx context.Context) ([]shop.CategorySummary, error) {
	return []shop.CategorySummary{{ID: 10, Name: "Electronics"}}, nil
}

func (s *stubLister) ListBrands(ctx context.Context, page, size int, sort string) (shop.Page[shop.Brand], error) {
	return shop.Page[shop.Brand]{
		Items:         []shop.Brand{{ID: 20, Name: "Acme"}},
		TotalPages:    1,
		TotalElements: 1,
	}, nil
}

func newBrowseRig(t *testing.T) (*gin.Engine, *catalog.SessionManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions := catalog.NewSessionManager(&stubLister{}, catalog.SessionManagerConfig{
		Controller: catalog.ControllerConfig{DebounceWindow: 10 * time.Millisecond},
		SessionTTL: time.Minute,
	}, zap.NewNop())
	t.Cleanup(sessions.Stop)

	engine := gin.New()
	router.NewRouter(engine).
		Register(NewBrowseHandler(sessions, zap.NewNop())).
		Setup()
	return engine, sessions
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, engine *gin.Engine, keyword string) string {
	t.Helper()
	w := doJSON(t, engine, "POST", "/api/v1/browse", CreateSessionRequest{Keyword: keyword})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data CreateSessionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.SessionID)
	return resp.Data.SessionID
}

func getSnapshot(t *testing.T, engine *gin.Engine, sid string) (SnapshotResponse, int) {
	t.Helper()
	w := doJSON(t, engine, "GET", "/api/v1/browse/"+sid, nil)
	var resp struct {
		Data SnapshotResponse `json:"data"`
	}
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return resp.Data, w.Code
}

func TestBrowse_CreateAndSnapshot(t *testing.T) {
	engine, _ := newBrowseRig(t)
	sid := createSession(t, engine, "")

	require.Eventually(t, func() bool {
		snap, code := getSnapshot(t, engine, sid)
		return code == http.StatusOK && !snap.Loading && len(snap.Products) == 1
	}, time.Second, 10*time.Millisecond)

	snap, _ := getSnapshot(t, engine, sid)
	assert.Equal(t, "Laptop", snap.Products[0].Name)
	assert.Len(t, snap.Categories, 1)
	assert.Len(t, snap.Brands, 1)
	assert.Equal(t, shop.DefaultPageSize, snap.Filters.PageSize)
	assert.Equal(t, "NAME", snap.Filters.Sort)
}

func TestBrowse_SnapshotUnknownSession(t *testing.T) {
	engine, _ := newBrowseRig(t)

	_, code := getSnapshot(t, engine, "00000000-0000-0000-0000-000000000000")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestBrowse_UpdateFilters(t *testing.T) {
	engine, _ := newBrowseRig(t)
	sid := createSession(t, engine, "")

	categoryID := int64(10)
	page := 3
	w := doJSON(t, engine, "PATCH", "/api/v1/browse/"+sid+"/filters", UpdateFiltersRequest{
		CategoryID: &categoryID,
		Page:       &page,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data SnapshotResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(10), resp.Data.Filters.CategoryID)
	assert.Equal(t, 3, resp.Data.Filters.Page)
}

func TestBrowse_UpdateFilters_RejectsUnknownEnums(t *testing.T) {
	engine, _ := newBrowseRig(t)
	sid := createSession(t, engine, "")

	w := doJSON(t, engine, "PATCH", "/api/v1/browse/"+sid+"/filters",
		map[string]string{"stock": "SOMETIMES"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, engine, "PATCH", "/api/v1/browse/"+sid+"/filters",
		map[string]string{"sort": "SHOE_SIZE"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBrowse_ApplyPriceRange(t *testing.T) {
	engine, _ := newBrowseRig(t)
	sid := createSession(t, engine, "")

	low := decimal.NewFromInt(100)
	high := decimal.NewFromInt(500)
	w := doJSON(t, engine, "POST", "/api/v1/browse/"+sid+"/price-range", PriceRangeRequest{
		MinPrice: &low,
		MaxPrice: &high,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data SnapshotResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data.Filters.MinPrice)
	assert.True(t, resp.Data.Filters.MinPrice.Equal(low))
}

func TestBrowse_ApplyPriceRange_Inverted(t *testing.T) {
	engine, _ := newBrowseRig(t)
	sid := createSession(t, engine, "")

	low := decimal.NewFromInt(500)
	high := decimal.NewFromInt(100)
	w := doJSON(t, engine, "POST", "/api/v1/browse/"+sid+"/price-range", PriceRangeRequest{
		MinPrice: &low,
		MaxPrice: &high,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_PRICE_RANGE")
}

func TestBrowse_RemoveSession(t *testing.T) {
	engine, sessions := newBrowseRig(t)
	sid := createSession(t, engine, "")

	w := doJSON(t, engine, "DELETE", "/api/v1/browse/"+sid, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, sessions.Count())

	_, code := getSnapshot(t, engine, sid)
	assert.Equal(t, http.StatusNotFound, code)
}
