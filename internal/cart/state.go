package cart

import (
	"github.com/shopspring/decimal"

	"github.com/vetdesign/checkout-api/internal/pricing"
)

// Quantity bounds enforced by the store. The store is the single authority
// for the range; callers that request values outside of it are silently
// ignored rather than corrupting persisted state.
const (
	MinQuantity = 1
	MaxQuantity = 99
)

// Product is the minimal projection the catalog layer hands to AddItem.
// The store trusts it as-is and does not re-validate.
type Product struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image,omitempty"`
}

// LineItem is one product entry in the cart, uniquely keyed by product id.
type LineItem struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image,omitempty"`
	Quantity int             `json:"quantity"`
}

// State is the persisted cart aggregate. Items keep insertion order, which
// is also display order.
type State struct {
	Items []LineItem `json:"items"`
}

// Add appends a new line item with quantity 1, or increments the quantity of
// the existing line for the same product id. The increment caps at
// MaxQuantity. Always succeeds.
func (s *State) Add(p Product) {
	for i := range s.Items {
		if s.Items[i].ID == p.ID {
			if s.Items[i].Quantity < MaxQuantity {
				s.Items[i].Quantity++
			}
			return
		}
	}
	s.Items = append(s.Items, LineItem{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Image:    p.Image,
		Quantity: 1,
	})
}

// Remove deletes the line item with the given id. No-op when absent.
func (s *State) Remove(id int64) {
	for i := range s.Items {
		if s.Items[i].ID == id {
			s.Items = append(s.Items[:i], s.Items[i+1:]...)
			return
		}
	}
}

// SetQuantity replaces the quantity of the line item with the given id.
// Requests outside [MinQuantity, MaxQuantity] or for an unknown id are
// ignored; the item is never removed or corrupted by an invalid request.
func (s *State) SetQuantity(id int64, qty int) {
	if qty < MinQuantity || qty > MaxQuantity {
		return
	}
	for i := range s.Items {
		if s.Items[i].ID == id {
			s.Items[i].Quantity = qty
			return
		}
	}
}

// Clear empties the cart unconditionally. Idempotent.
func (s *State) Clear() {
	s.Items = nil
}

// TotalItems sums quantities across all lines. Zero for an empty cart.
func (s State) TotalItems() int {
	var total int
	for _, it := range s.Items {
		total += it.Quantity
	}
	return total
}

// TotalPrice sums price times quantity across all lines.
func (s State) TotalPrice() decimal.Decimal {
	var total decimal.Decimal
	for _, it := range s.Items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// PricingLines converts the cart contents into calculator input.
func (s State) PricingLines() []pricing.Line {
	lines := make([]pricing.Line, 0, len(s.Items))
	for _, it := range s.Items {
		lines = append(lines, pricing.Line{Qty: it.Quantity, UnitPrice: it.Price})
	}
	return lines
}
