package catalog_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vetdesign/checkout-api/internal/catalog"
	"github.com/vetdesign/checkout-api/internal/storage"
)

func newCatalogRouter(t *testing.T, fetcher catalog.Fetcher) http.Handler {
	t.Helper()
	svc, err := catalog.NewService(catalog.ServiceConfig{
		Fetcher: fetcher,
		Cache:   storage.NewMemory(),
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)
	h := &catalog.Handler{Service: svc}

	r := chi.NewRouter()
	r.Get("/api/v1/products", h.Products)
	r.Get("/api/v1/products/{id}", h.ProductDetail)
	return r
}

func TestProductsEndpoint(t *testing.T) {
	router := newCatalogRouter(t, &fakeFetcher{products: []catalog.Product{
		{ID: 1, Name: "Poster", Price: decimal.RequireFromString("49.99"), Image: "/p.png"},
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []struct {
			ID    int64  `json:"id"`
			Name  string `json:"name"`
			Price string `json:"price"`
			Image string `json:"image"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	require.Equal(t, "49.99", resp.Data[0].Price)
	require.Equal(t, "/p.png", resp.Data[0].Image)
}

func TestProductDetailEndpoint(t *testing.T) {
	router := newCatalogRouter(t, &fakeFetcher{products: []catalog.Product{
		{ID: 1, Name: "Poster", Price: decimal.RequireFromString("49.99")},
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/products/abc", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductDetailNotFound(t *testing.T) {
	// with the upstream healthy but the id unknown, fallback does not apply
	router := newCatalogRouter(t, &fakeFetcher{products: nil})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/12345", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "NOT_FOUND")
}
