package pricing

import "github.com/shopspring/decimal"

// Delivery method identifiers understood by the calculator. Anything else
// ships free.
const (
	DeliveryCourier = "courier"
	DeliveryDefault = "inpost"
)

var (
	promoRate   = decimal.RequireFromString("0.10")
	courierCost = decimal.RequireFromString("14.99")
)

// Line describes a cart line used for price calculation.
type Line struct {
	Qty       int
	UnitPrice decimal.Decimal
}

// Summary aggregates the computed price components. Values are exact; two
// decimal rounding is applied at serialisation time only.
type Summary struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Delivery decimal.Decimal
	Total    decimal.Decimal
}

// Compute derives subtotal, discount, delivery cost and grand total from the
// cart lines plus the selected delivery method and promo code.
//
// Any non-empty promo code unlocks a flat 10% discount; there is no code
// catalog to validate against. TODO: replace with real code validation once
// the voucher backend exists.
func Compute(lines []Line, deliveryMethod, promoCode string) Summary {
	var subtotal decimal.Decimal
	for _, l := range lines {
		if l.Qty <= 0 {
			continue
		}
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Qty))))
	}
	var discount decimal.Decimal
	if promoCode != "" {
		discount = subtotal.Mul(promoRate)
	}
	var delivery decimal.Decimal
	if deliveryMethod == DeliveryCourier {
		delivery = courierCost
	}
	return Summary{
		Subtotal: subtotal,
		Discount: discount,
		Delivery: delivery,
		Total:    subtotal.Sub(discount).Add(delivery),
	}
}

// CourierCost reports the flat courier delivery price.
func CourierCost() decimal.Decimal {
	return courierCost
}
