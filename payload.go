package gateway

// OrderPayload is the order-creation request body sent to the processor.
type OrderPayload struct {
	Intent        string         `json:"intent"`
	PurchaseUnits []PurchaseUnit `json:"purchase_units"`
	PaymentSource *PaymentSource `json:"payment_source,omitempty"`
}

// PurchaseUnit describes one unit of the order: what is being charged and,
// optionally, where it ships.
type PurchaseUnit struct {
	Amount      Amount    `json:"amount"`
	Description string    `json:"description,omitempty"`
	Shipping    *Shipping `json:"shipping,omitempty"`
}

// Shipping wraps the address block attached to a purchase unit.
type Shipping struct {
	Address *Address `json:"address,omitempty"`
}

// PaymentSource is a closed two-variant type: exactly one of Token or
// PayPal is set. Token references an already-vaulted instrument; PayPal is
// an interactive payer source that may request vaulting on success.
type PaymentSource struct {
	Token  *TokenSource  `json:"token,omitempty"`
	PayPal *PayPalSource `json:"paypal,omitempty"`
}

// TokenSource charges a stored instrument by its vault id.
type TokenSource struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// TokenTypePaymentMethod is the token type for vaulted instruments.
const TokenTypePaymentMethod = "PAYMENT_METHOD_TOKEN"

// PayPalSource is the interactive payer source with its checkout
// experience settings and optional vaulting attributes.
type PayPalSource struct {
	ExperienceContext ExperienceContext `json:"experience_context"`
	Attributes        *SourceAttributes `json:"attributes,omitempty"`
}

// ExperienceContext controls the hosted checkout experience.
type ExperienceContext struct {
	BrandName          string `json:"brand_name,omitempty"`
	Locale             string `json:"locale,omitempty"`
	LandingPage        string `json:"landing_page,omitempty"`
	UserAction         string `json:"user_action,omitempty"`
	ShippingPreference string `json:"shipping_preference"`
	ReturnURL          string `json:"return_url,omitempty"`
	CancelURL          string `json:"cancel_url,omitempty"`
}

// SourceAttributes carries vaulting instructions and, for returning payers,
// the vault customer the new instrument should link to.
type SourceAttributes struct {
	Vault    *VaultAttributes `json:"vault,omitempty"`
	Customer *CustomerRef     `json:"customer,omitempty"`
}

// VaultAttributes requests that the instrument used be stored on success.
type VaultAttributes struct {
	StoreInVault string `json:"store_in_vault"`
	UsageType    string `json:"usage_type"`
	CustomerType string `json:"customer_type"`
}

// CustomerRef identifies an existing vault customer.
type CustomerRef struct {
	ID string `json:"id"`
}

// Vaulting enumerators defined by the processor.
const (
	StoreOnSuccess       = "ON_SUCCESS"
	UsageTypeMerchant    = "MERCHANT"
	CustomerTypeConsumer = "CONSUMER"
)
