package checkout

import "github.com/vetdesign/checkout-api/internal/pricing"

// AddressType distinguishes private and company buyers.
type AddressType string

// Address type values.
const (
	AddressPrivate AddressType = "private"
	AddressCompany AddressType = "company"
)

// Address is the delivery address accumulated during checkout. Field
// validation happens at the form/handler boundary; the store writes whatever
// it is given.
type Address struct {
	Type            AddressType `json:"type"`
	Country         string      `json:"country"`
	FirstName       string      `json:"firstName"`
	LastName        string      `json:"lastName"`
	Email           string      `json:"email"`
	Street          string      `json:"street"`
	HouseNumber     string      `json:"houseNumber"`
	ApartmentNumber string      `json:"apartmentNumber,omitempty"`
	PostalCode      string      `json:"postalCode"`
	City            string      `json:"city"`
	Phone           string      `json:"phone"`
	DefaultAddress  bool        `json:"defaultAddress"`
	CompanyName     string      `json:"companyName,omitempty"`
	NIP             string      `json:"nip,omitempty"`
}

// Payment carries the chosen payment method.
type Payment struct {
	Method string `json:"method"`
}

// State is the persisted checkout aggregate. It lives under its own storage
// key with a lifecycle independent from the cart: clearing one never touches
// the other.
type State struct {
	Address        *Address `json:"address"`
	Payment        *Payment `json:"payment"`
	DeliveryMethod string   `json:"deliveryMethod"`
	PromoCode      string   `json:"promoCode"`
}

// NewState returns the documented defaults: no address, no payment,
// delivery "inpost", empty promo code.
func NewState() State {
	return State{DeliveryMethod: pricing.DeliveryDefault}
}

// SetAddress overwrites the address unconditionally.
func (s *State) SetAddress(a Address) {
	s.Address = &a
}

// SetPayment overwrites the payment selection unconditionally.
func (s *State) SetPayment(p Payment) {
	s.Payment = &p
}

// SetDeliveryMethod overwrites the delivery method unconditionally.
func (s *State) SetDeliveryMethod(method string) {
	s.DeliveryMethod = method
}

// SetPromoCode overwrites the promo code unconditionally.
func (s *State) SetPromoCode(code string) {
	s.PromoCode = code
}

// Clear resets every field to its default.
func (s *State) Clear() {
	*s = NewState()
}
