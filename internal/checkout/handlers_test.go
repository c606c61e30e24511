package checkout_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/vetdesign/checkout-api/internal/cart"
	"github.com/vetdesign/checkout-api/internal/checkout"
	"github.com/vetdesign/checkout-api/internal/common"
	"github.com/vetdesign/checkout-api/internal/storage"
)

type checkoutResponse struct {
	Data struct {
		Address        *checkout.Address `json:"address"`
		Payment        *checkout.Payment `json:"payment"`
		DeliveryMethod string            `json:"deliveryMethod"`
		PromoCode      string            `json:"promoCode"`
		Hydrated       bool              `json:"hydrated"`
	} `json:"data"`
}

type summaryResponse struct {
	Data struct {
		Subtotal       string `json:"subtotal"`
		Discount       string `json:"discount"`
		Delivery       string `json:"delivery"`
		Total          string `json:"total"`
		TotalItems     int    `json:"totalItems"`
		DeliveryMethod string `json:"deliveryMethod"`
		PromoApplied   bool   `json:"promoApplied"`
		Action         struct {
			Label    string `json:"label"`
			Target   string `json:"target"`
			Disabled bool   `json:"disabled"`
		} `json:"action"`
		Hydrated bool `json:"hydrated"`
	} `json:"data"`
}

func newCheckoutRouter(kv storage.KV) http.Handler {
	h := &checkout.Handler{
		Repo:     checkout.KVRepository{KV: kv},
		CartRepo: cart.KVRepository{KV: kv},
		Validate: validator.New(),
	}
	cartHandler := &cart.Handler{Repo: cart.KVRepository{KV: kv}}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(common.WithSessionID(req.Context(), "test-session")))
		})
	})
	r.Post("/api/v1/cart/items", cartHandler.AddItem)
	r.Get("/api/v1/checkout", h.Get)
	r.Put("/api/v1/checkout/address", h.SetAddress)
	r.Put("/api/v1/checkout/payment", h.SetPayment)
	r.Put("/api/v1/checkout/delivery", h.SetDelivery)
	r.Put("/api/v1/checkout/promo-code", h.SetPromoCode)
	r.Delete("/api/v1/checkout", h.Clear)
	r.Get("/api/v1/checkout/summary", h.Summary)
	return r
}

func do(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

const validPrivateAddress = `{
	"type": "private",
	"country": "PL",
	"firstName": "Jan",
	"lastName": "Kowalski",
	"email": "jan@example.com",
	"street": "Marszalkowska",
	"houseNumber": "1",
	"postalCode": "00-001",
	"city": "Warszawa",
	"phone": "+48123123123"
}`

func TestCheckoutRoundTrip(t *testing.T) {
	router := newCheckoutRouter(storage.NewMemory())

	rec := do(t, router, http.MethodGet, "/api/v1/checkout", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp checkoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Nil(t, resp.Data.Address)
	require.Equal(t, "inpost", resp.Data.DeliveryMethod)
	require.True(t, resp.Data.Hydrated)

	rec = do(t, router, http.MethodPut, "/api/v1/checkout/address", validPrivateAddress)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodPut, "/api/v1/checkout/payment", `{"method":"blik"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodPut, "/api/v1/checkout/delivery", `{"method":"courier"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodPut, "/api/v1/checkout/promo-code", `{"code":"WELCOME10"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/checkout", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data.Address)
	require.Equal(t, "Jan", resp.Data.Address.FirstName)
	require.Equal(t, "blik", resp.Data.Payment.Method)
	require.Equal(t, "courier", resp.Data.DeliveryMethod)
	require.Equal(t, "WELCOME10", resp.Data.PromoCode)

	rec = do(t, router, http.MethodDelete, "/api/v1/checkout", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Nil(t, resp.Data.Address)
	require.Nil(t, resp.Data.Payment)
	require.Equal(t, "inpost", resp.Data.DeliveryMethod)
	require.Empty(t, resp.Data.PromoCode)
}

func TestAddressValidation(t *testing.T) {
	router := newCheckoutRouter(storage.NewMemory())

	cases := map[string]string{
		"missing email":       `{"type":"private","country":"PL","firstName":"Jan","lastName":"K","street":"s","houseNumber":"1","postalCode":"00-001","city":"W","phone":"1"}`,
		"bad email":           strings.Replace(validPrivateAddress, "jan@example.com", "not-an-email", 1),
		"unknown type":        strings.Replace(validPrivateAddress, `"private"`, `"government"`, 1),
		"company without nip": strings.Replace(validPrivateAddress, `"private"`, `"company"`, 1),
	}
	for name, body := range cases {
		rec := do(t, router, http.MethodPut, "/api/v1/checkout/address", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, "%s: %s", name, rec.Body.String())
	}

	// company form passes once the registration fields are present
	company := strings.Replace(validPrivateAddress, `"phone": "+48123123123"`,
		`"phone": "+48123123123", "companyName": "VetDesign", "nip": "1234567890"`, 1)
	company = strings.Replace(company, `"private"`, `"company"`, 1)
	rec := do(t, router, http.MethodPut, "/api/v1/checkout/address", company)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestPaymentAndDeliveryRequireMethod(t *testing.T) {
	router := newCheckoutRouter(storage.NewMemory())

	rec := do(t, router, http.MethodPut, "/api/v1/checkout/payment", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPut, "/api/v1/checkout/delivery", `{"method":""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSummaryPricesCartWithSelections(t *testing.T) {
	router := newCheckoutRouter(storage.NewMemory())

	rec := do(t, router, http.MethodPost, "/api/v1/cart/items", `{"id":1,"name":"Anatomy poster","price":100}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, router, http.MethodPost, "/api/v1/cart/items", `{"id":1,"name":"Anatomy poster","price":100}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodPut, "/api/v1/checkout/delivery", `{"method":"courier"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, router, http.MethodPut, "/api/v1/checkout/promo-code", `{"code":"ANY"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/checkout/summary?path=/koszyk", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp summaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "200.00", resp.Data.Subtotal)
	require.Equal(t, "20.00", resp.Data.Discount)
	require.Equal(t, "14.99", resp.Data.Delivery)
	require.Equal(t, "194.99", resp.Data.Total)
	require.Equal(t, 2, resp.Data.TotalItems)
	require.True(t, resp.Data.PromoApplied)
	require.True(t, resp.Data.Hydrated)
}

func TestSummaryGatesCartStepOnEmptyCart(t *testing.T) {
	router := newCheckoutRouter(storage.NewMemory())

	rec := do(t, router, http.MethodGet, "/api/v1/checkout/summary?path=/koszyk", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp summaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Proceed to delivery", resp.Data.Action.Label)
	require.True(t, resp.Data.Action.Disabled)

	rec = do(t, router, http.MethodPost, "/api/v1/cart/items", `{"id":7,"name":"Poster","price":50}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/checkout/summary?path=/koszyk", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Data.Action.Disabled)
	require.Equal(t, "/koszyk/adres", resp.Data.Action.Target)
}

func TestCheckoutHandlerRequiresSession(t *testing.T) {
	h := &checkout.Handler{
		Repo:     checkout.KVRepository{KV: storage.NewMemory()},
		CartRepo: cart.KVRepository{KV: storage.NewMemory()},
		Validate: validator.New(),
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout", nil)
	rec := httptest.NewRecorder()
	h.Get(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
