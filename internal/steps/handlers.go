package steps

import (
	"net/http"

	"github.com/vetdesign/checkout-api/internal/cart"
	"github.com/vetdesign/checkout-api/internal/common"
)

// Handler exposes the derived step machine to the storefront.
type Handler struct {
	CartRepo cart.Repository
}

// Get returns the step markers, progress and visibility for the route given
// in the "path" query parameter.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sid, ok := common.SessionID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "session not established", nil)
		return
	}
	path := r.URL.Query().Get("path")
	st := cart.Open(r.Context(), h.CartRepo, sid)
	snapshot := st.Snapshot()

	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"steps":    Markers(path),
			"progress": Progress(path),
			"visible":  BarVisible(snapshot.TotalItems()),
			"action":   PrimaryAction(path, snapshot.TotalPrice()),
			"hydrated": st.Hydrated(),
		},
	})
}
