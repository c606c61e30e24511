package cart

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/vetdesign/checkout-api/internal/common"
	"github.com/vetdesign/checkout-api/internal/obs"
)

// Handler wires the cart store to HTTP.
type Handler struct {
	Repo Repository
}

// Get returns the cart snapshot with derived totals.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	st := Open(r.Context(), h.Repo, sid)
	h.writeCart(w, http.StatusOK, st)
}

// AddItem adds a product projection to the cart, incrementing quantity when
// the product is already present.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	var payload Product
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if payload.ID <= 0 {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "id is required", nil)
		return
	}
	if strings.TrimSpace(payload.Name) == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "name is required", nil)
		return
	}
	if payload.Price.IsNegative() {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "price must not be negative", nil)
		return
	}
	st := Open(r.Context(), h.Repo, sid)
	if err := st.AddItem(r.Context(), payload); err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to persist cart", nil)
		return
	}
	obs.CountCartMutation("add_item")
	h.writeCart(w, http.StatusOK, st)
}

// UpdateItem replaces the quantity of a line item. Out-of-range quantities
// are silently ignored: the response reflects the unchanged state.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid item id", nil)
		return
	}
	var payload struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	st := Open(r.Context(), h.Repo, sid)
	if err := st.UpdateQuantity(r.Context(), id, payload.Quantity); err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to persist cart", nil)
		return
	}
	obs.CountCartMutation("update_quantity")
	h.writeCart(w, http.StatusOK, st)
}

// RemoveItem deletes a line item. Removing an absent item is a no-op.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid item id", nil)
		return
	}
	st := Open(r.Context(), h.Repo, sid)
	if err := st.RemoveItem(r.Context(), id); err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to persist cart", nil)
		return
	}
	obs.CountCartMutation("remove_item")
	h.writeCart(w, http.StatusOK, st)
}

// Clear empties the cart.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}
	st := Open(r.Context(), h.Repo, sid)
	if err := st.Clear(r.Context()); err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to persist cart", nil)
		return
	}
	obs.CountCartMutation("clear")
	h.writeCart(w, http.StatusOK, st)
}

func (h *Handler) writeCart(w http.ResponseWriter, status int, st *Store) {
	state := st.Snapshot()
	items := make([]map[string]any, 0, len(state.Items))
	for _, it := range state.Items {
		item := map[string]any{
			"id":        it.ID,
			"name":      it.Name,
			"price":     it.Price.StringFixed(2),
			"quantity":  it.Quantity,
			"lineTotal": it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))).StringFixed(2),
		}
		if it.Image != "" {
			item["image"] = it.Image
		}
		items = append(items, item)
	}
	common.JSON(w, status, map[string]any{
		"data": map[string]any{
			"items":      items,
			"totalItems": state.TotalItems(),
			"totalPrice": state.TotalPrice().StringFixed(2),
			"hydrated":   st.Hydrated(),
		},
	})
}

func sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	sid, ok := common.SessionID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "session not established", nil)
		return "", false
	}
	return sid, true
}
