package cart_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/vetdesign/checkout-api/internal/cart"
	"github.com/vetdesign/checkout-api/internal/common"
	"github.com/vetdesign/checkout-api/internal/storage"
)

type cartResponse struct {
	Data struct {
		Items []struct {
			ID        int64  `json:"id"`
			Name      string `json:"name"`
			Price     string `json:"price"`
			Quantity  int    `json:"quantity"`
			LineTotal string `json:"lineTotal"`
		} `json:"items"`
		TotalItems int    `json:"totalItems"`
		TotalPrice string `json:"totalPrice"`
		Hydrated   bool   `json:"hydrated"`
	} `json:"data"`
}

func newCartRouter(repo cart.Repository) http.Handler {
	h := &cart.Handler{Repo: repo}
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(common.WithSessionID(req.Context(), "test-session")))
		})
	})
	r.Get("/api/v1/cart", h.Get)
	r.Post("/api/v1/cart/items", h.AddItem)
	r.Patch("/api/v1/cart/items/{id}", h.UpdateItem)
	r.Delete("/api/v1/cart/items/{id}", h.RemoveItem)
	r.Delete("/api/v1/cart", h.Clear)
	return r
}

func doCart(t *testing.T, router http.Handler, method, target, body string) cartResponse {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp cartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCartHandlersFlow(t *testing.T) {
	router := newCartRouter(cart.KVRepository{KV: storage.NewMemory()})

	resp := doCart(t, router, http.MethodGet, "/api/v1/cart", "")
	require.Empty(t, resp.Data.Items)
	require.True(t, resp.Data.Hydrated)

	resp = doCart(t, router, http.MethodPost, "/api/v1/cart/items", `{"id":1,"name":"Anatomy poster","price":49.99,"image":"/poster.png"}`)
	require.Len(t, resp.Data.Items, 1)
	require.Equal(t, "49.99", resp.Data.Items[0].Price)
	require.Equal(t, 1, resp.Data.TotalItems)

	resp = doCart(t, router, http.MethodPost, "/api/v1/cart/items", `{"id":1,"name":"Anatomy poster","price":49.99}`)
	require.Len(t, resp.Data.Items, 1)
	require.Equal(t, 2, resp.Data.Items[0].Quantity)
	require.Equal(t, "99.98", resp.Data.Items[0].LineTotal)

	resp = doCart(t, router, http.MethodPatch, "/api/v1/cart/items/1", `{"quantity":5}`)
	require.Equal(t, 5, resp.Data.Items[0].Quantity)
	require.Equal(t, "249.95", resp.Data.TotalPrice)

	// out-of-range quantity is ignored, not an error
	resp = doCart(t, router, http.MethodPatch, "/api/v1/cart/items/1", `{"quantity":100}`)
	require.Equal(t, 5, resp.Data.Items[0].Quantity)

	resp = doCart(t, router, http.MethodDelete, "/api/v1/cart/items/1", "")
	require.Empty(t, resp.Data.Items)
	require.Equal(t, "0.00", resp.Data.TotalPrice)
}

func TestCartHandlersClear(t *testing.T) {
	router := newCartRouter(cart.KVRepository{KV: storage.NewMemory()})

	doCart(t, router, http.MethodPost, "/api/v1/cart/items", `{"id":1,"name":"a","price":5}`)
	doCart(t, router, http.MethodPost, "/api/v1/cart/items", `{"id":2,"name":"b","price":6}`)

	resp := doCart(t, router, http.MethodDelete, "/api/v1/cart", "")
	require.Empty(t, resp.Data.Items)
	require.Zero(t, resp.Data.TotalItems)
}

func TestCartHandlersRejectBadPayload(t *testing.T) {
	router := newCartRouter(cart.KVRepository{KV: storage.NewMemory()})

	cases := []string{
		`{`,
		`{"name":"no id","price":5}`,
		`{"id":1,"price":5}`,
		`{"id":1,"name":"x","price":-1}`,
	}
	for _, body := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code, "payload %s", body)
	}
}

func TestCartHandlersUnhydratedRead(t *testing.T) {
	router := newCartRouter(cart.KVRepository{KV: failingKV{}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp cartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Data.Hydrated)
	require.Empty(t, resp.Data.Items)
}

func TestCartHandlerRequiresSession(t *testing.T) {
	h := &cart.Handler{Repo: cart.KVRepository{KV: storage.NewMemory()}}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	h.Get(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
