package checkout

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/vetdesign/checkout-api/internal/cart"
	"github.com/vetdesign/checkout-api/internal/common"
	"github.com/vetdesign/checkout-api/internal/obs"
	"github.com/vetdesign/checkout-api/internal/pricing"
	"github.com/vetdesign/checkout-api/internal/steps"
)

// Handler wires the checkout store to HTTP. The cart repository is read-only
// here; the summary endpoint needs the line items to price against.
type Handler struct {
	Repo     Repository
	CartRepo cart.Repository
	Validate *validator.Validate
}

type addressPayload struct {
	Type            string `json:"type" validate:"required,oneof=private company"`
	Country         string `json:"country" validate:"required"`
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Street          string `json:"street" validate:"required"`
	HouseNumber     string `json:"houseNumber" validate:"required"`
	ApartmentNumber string `json:"apartmentNumber"`
	PostalCode      string `json:"postalCode" validate:"required"`
	City            string `json:"city" validate:"required"`
	Phone           string `json:"phone" validate:"required"`
	DefaultAddress  bool   `json:"defaultAddress"`
	CompanyName     string `json:"companyName" validate:"required_if=Type company"`
	NIP             string `json:"nip" validate:"required_if=Type company"`
}

type paymentPayload struct {
	Method string `json:"method" validate:"required"`
}

type deliveryPayload struct {
	Method string `json:"method" validate:"required"`
}

type promoPayload struct {
	Code string `json:"code"`
}

// Get returns the checkout snapshot.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	st := Open(r.Context(), h.Repo, sid)
	h.writeCheckout(w, http.StatusOK, st)
}

// SetAddress validates and persists the delivery address. Company buyers must
// supply a company name and tax id.
func (h *Handler) SetAddress(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	var payload addressPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if details, ok := h.validate(payload); !ok {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_FAILED", "address is invalid", details)
		return
	}
	st := Open(r.Context(), h.Repo, sid)
	addr := Address{
		Type:            AddressType(payload.Type),
		Country:         payload.Country,
		FirstName:       payload.FirstName,
		LastName:        payload.LastName,
		Email:           payload.Email,
		Street:          payload.Street,
		HouseNumber:     payload.HouseNumber,
		ApartmentNumber: payload.ApartmentNumber,
		PostalCode:      payload.PostalCode,
		City:            payload.City,
		Phone:           payload.Phone,
		DefaultAddress:  payload.DefaultAddress,
		CompanyName:     payload.CompanyName,
		NIP:             payload.NIP,
	}
	if err := st.SetAddress(r.Context(), addr); err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to persist checkout", nil)
		return
	}
	obs.CountCheckoutMutation("set_address")
	h.writeCheckout(w, http.StatusOK, st)
}

// SetPayment persists the payment method selection.
func (h *Handler) SetPayment(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	var payload paymentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if details, ok := h.validate(payload); !ok {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_FAILED", "payment is invalid", details)
		return
	}
	st := Open(r.Context(), h.Repo, sid)
	if err := st.SetPayment(r.Context(), Payment{Method: payload.Method}); err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to persist checkout", nil)
		return
	}
	obs.CountCheckoutMutation("set_payment")
	h.writeCheckout(w, http.StatusOK, st)
}

// SetDelivery persists the delivery method selection. Unknown methods are
// stored as-is and simply price as free delivery.
func (h *Handler) SetDelivery(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	var payload deliveryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if details, ok := h.validate(payload); !ok {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_FAILED", "delivery is invalid", details)
		return
	}
	st := Open(r.Context(), h.Repo, sid)
	if err := st.SetDeliveryMethod(r.Context(), payload.Method); err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to persist checkout", nil)
		return
	}
	obs.CountCheckoutMutation("set_delivery")
	h.writeCheckout(w, http.StatusOK, st)
}

// SetPromoCode persists the promo code. An empty code removes the discount.
func (h *Handler) SetPromoCode(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	var payload promoPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	st := Open(r.Context(), h.Repo, sid)
	if err := st.SetPromoCode(r.Context(), payload.Code); err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to persist checkout", nil)
		return
	}
	obs.CountCheckoutMutation("set_promo_code")
	h.writeCheckout(w, http.StatusOK, st)
}

// Clear resets the checkout state. The cart is left untouched.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	st := Open(r.Context(), h.Repo, sid)
	if err := st.Clear(r.Context()); err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to persist checkout", nil)
		return
	}
	obs.CountCheckoutMutation("clear")
	h.writeCheckout(w, http.StatusOK, st)
}

// Summary prices the current cart against the checkout selections and derives
// the primary call-to-action for the route given in the "path" query
// parameter.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		path = steps.PathCart
	}

	cartStore := cart.Open(r.Context(), h.CartRepo, sid)
	cartState := cartStore.Snapshot()
	st := Open(r.Context(), h.Repo, sid)
	state := st.Snapshot()

	sum := pricing.Compute(cartState.PricingLines(), state.DeliveryMethod, state.PromoCode)
	action := steps.PrimaryAction(path, sum.Subtotal)

	data := map[string]any{
		"subtotal":       sum.Subtotal.StringFixed(2),
		"discount":       sum.Discount.StringFixed(2),
		"delivery":       sum.Delivery.StringFixed(2),
		"total":          sum.Total.StringFixed(2),
		"totalItems":     cartState.TotalItems(),
		"deliveryMethod": state.DeliveryMethod,
		"promoApplied":   state.PromoCode != "",
		"action":         action,
		"cartHydrated":   cartStore.Hydrated(),
		"hydrated":       st.Hydrated(),
	}
	if state.Address != nil {
		data["address"] = state.Address
	}
	if state.Payment != nil {
		data["payment"] = state.Payment
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": data})
}

func (h *Handler) writeCheckout(w http.ResponseWriter, status int, st *Store) {
	state := st.Snapshot()
	common.JSON(w, status, map[string]any{
		"data": map[string]any{
			"address":        state.Address,
			"payment":        state.Payment,
			"deliveryMethod": state.DeliveryMethod,
			"promoCode":      state.PromoCode,
			"hydrated":       st.Hydrated(),
		},
	})
}

// validate runs struct validation and flattens failures into a field map for
// the error details payload.
func (h *Handler) validate(v any) (map[string]string, bool) {
	err := h.Validate.Struct(v)
	if err == nil {
		return nil, true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}, false
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fe.Tag()
	}
	return details, false
}

func sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	sid, ok := common.SessionID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "session not established", nil)
		return "", false
	}
	return sid, true
}
