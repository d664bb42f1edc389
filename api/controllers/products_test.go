package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/freshbasket/freshbasket-backend/internal/catalog"
	"github.com/freshbasket/freshbasket-backend/pkg/enums"
	pkgerrors "github.com/freshbasket/freshbasket-backend/pkg/errors"
)

type stubCatalogService struct {
	page      *catalog.ProductPageDTO
	product   *catalog.ProductDTO
	err       error
	lastInput catalog.ListProductsInput
	lastID    uuid.UUID
}

func (s *stubCatalogService) ListProducts(ctx context.Context, input catalog.ListProductsInput) (*catalog.ProductPageDTO, error) {
	s.lastInput = input
	return s.page, s.err
}

func (s *stubCatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*catalog.ProductDTO, error) {
	s.lastID = id
	return s.product, s.err
}

func TestProductListForwardsFilters(t *testing.T) {
	service := &stubCatalogService{page: &catalog.ProductPageDTO{
		Products: []catalog.ProductDTO{{ID: uuid.New(), Name: "Banana", Price: decimal.NewFromInt(30)}},
	}}
	handler := ProductList(service, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/products?category=fruits&search=ban&limit=5&cursor=abc", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if service.lastInput.Category == nil || *service.lastInput.Category != enums.ProductCategoryFruits {
		t.Fatalf("category filter not forwarded: %v", service.lastInput.Category)
	}
	if service.lastInput.Search != "ban" {
		t.Fatalf("unexpected search: %q", service.lastInput.Search)
	}
	if service.lastInput.Pagination.Limit != 5 || service.lastInput.Pagination.Cursor != "abc" {
		t.Fatalf("pagination not forwarded: %+v", service.lastInput.Pagination)
	}

	var envelope struct {
		Data catalog.ProductPageDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Products) != 1 {
		t.Fatalf("expected 1 product got %d", len(envelope.Data.Products))
	}
}

func TestProductListRejectsUnknownCategory(t *testing.T) {
	handler := ProductList(&stubCatalogService{page: &catalog.ProductPageDTO{}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/products?category=gadgets", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestProductListRejectsBadLimit(t *testing.T) {
	handler := ProductList(&stubCatalogService{page: &catalog.ProductPageDTO{}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/products?limit=oops", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestProductFetchInvalidID(t *testing.T) {
	handler := ProductFetch(&stubCatalogService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/products/banana", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestProductFetchNotFound(t *testing.T) {
	service := &stubCatalogService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	handler := ProductFetch(service, nil)

	req := newRequestWithURLParam(http.MethodGet, "/v1/products/"+uuid.NewString(), "productId", uuid.NewString())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
