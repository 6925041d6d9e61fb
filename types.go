package gateway

import "encoding/json"

// ShippingMode selects how shipping is represented on an order.
// It determines two things: whether an address block is attached to the
// purchase unit, and which shipping preference is sent in the experience
// context.
type ShippingMode string

const (
	// ShippingNone attaches no address and asks the processor not to
	// collect one.
	ShippingNone ShippingMode = "none"
	// ShippingNoShipping attaches an address but keeps the no-shipping
	// preference. The address is recorded without being treated as a
	// seller-protection shipping destination.
	ShippingNoShipping ShippingMode = "no_shipping"
	// ShippingProvided attaches an address and fixes it as the shipping
	// destination. This enables proof-of-shipping protection and may
	// disqualify a pure one-click flow under the processor's rules.
	ShippingProvided ShippingMode = "set_provided"
)

// Shipping preference enumerators defined by the processor.
const (
	PreferenceNoShipping         = "NO_SHIPPING"
	PreferenceSetProvidedAddress = "SET_PROVIDED_ADDRESS"
)

// Valid reports whether m is one of the three known modes.
func (m ShippingMode) Valid() bool {
	switch m {
	case ShippingNone, ShippingNoShipping, ShippingProvided:
		return true
	}
	return false
}

// IncludesAddress reports whether an address block is attached for this mode.
func (m ShippingMode) IncludesAddress() bool {
	return m == ShippingNoShipping || m == ShippingProvided
}

// Preference returns the shipping-preference enumerator sent to the processor.
func (m ShippingMode) Preference() string {
	if m == ShippingProvided {
		return PreferenceSetProvidedAddress
	}
	return PreferenceNoShipping
}

// Amount is a processor-side monetary amount: ISO currency code plus a
// decimal string.
type Amount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

// Address is a shipping address in the processor's portable format.
type Address struct {
	AddressLine1 string `json:"address_line_1,omitempty"`
	AddressLine2 string `json:"address_line_2,omitempty"`
	AdminArea2   string `json:"admin_area_2,omitempty"`
	AdminArea1   string `json:"admin_area_1,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	CountryCode  string `json:"country_code"`
}

// CreateOrderInput describes an order-creation request from the facade.
//
// When VaultID is set the order charges a stored instrument and no vaulting
// attributes are attached. Otherwise the order uses an interactive payer
// source that requests vault-on-success, linked to CustomerID when one is
// known.
type CreateOrderInput struct {
	CustomerID   string
	VaultID      string
	ShippingMode ShippingMode
	Amount       string
	Currency     string
	Description  string

	// RequestID, when set, is forwarded as the processor-facing
	// idempotency key instead of a freshly generated one. The one-click
	// path uses this to tie order creation to the caller's key.
	RequestID string
}

// OneClickRequest is a server-side charge against a previously vaulted
// instrument, without interactive payer approval.
type OneClickRequest struct {
	VaultID     string `json:"vaultId"`
	CustomerID  string `json:"customerId"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
}

// Validate checks the request preconditions. It must pass before any cache
// lookup or network call is made.
func (r OneClickRequest) Validate() error {
	if r.VaultID == "" {
		return NewError(ErrCodeValidation, "vaultId required", nil)
	}
	currency := r.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	if r.Amount != "" {
		if err := ValidateAmount(r.Amount, currency); err != nil {
			return err
		}
	}
	return nil
}

// OneClickResult is the stable outcome of a one-click charge. Once cached
// under a request identifier it is returned verbatim for every retry.
type OneClickResult struct {
	OrderID     string          `json:"orderId"`
	OrderStatus string          `json:"orderStatus"`
	Capture     json.RawMessage `json:"capture"`
}

// OrderResult is the processor's view of an order after a create or get
// call. Body carries the full response for passthrough to the facade.
type OrderResult struct {
	ID     string
	Status string
	Body   json.RawMessage
}

// CaptureResult is the processor's response to a capture call.
type CaptureResult struct {
	Status string
	Body   json.RawMessage
}
